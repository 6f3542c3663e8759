package main

import "github.com/agentic-research/musicstore/cmd"

func main() {
	cmd.Execute()
}
