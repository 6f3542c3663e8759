package cmd

import (
	"bytes"
	"testing"

	"github.com/agentic-research/musicstore/internal/fixture"
	"github.com/agentic-research/musicstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "disabled"))
	err := root.Execute()
	return out.String(), err
}

func TestRoot_RunsReportByDefault(t *testing.T) {
	db := fixture.Build(t, fixture.Singular)

	out, err := execute(t, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "# TASK 1  #")
	assert.Contains(t, out, "# THANKS  #")
	assert.Contains(t, out, `("Audioslave", 3)`)
	assert.Contains(t, out, "keyed by name")
}

func TestReport_Flags(t *testing.T) {
	db := fixture.Build(t, fixture.Plural)

	out, err := execute(t, "report", "--db", db, "--top", "2", "--keying", "lineage")
	require.NoError(t, err)
	assert.Contains(t, out, "> Top 2 artists with most albums (SQL)")
	assert.NotContains(t, out, `("Accept", 2)`)
	assert.Contains(t, out, "keyed by lineage")
}

func TestReport_EnvAndFlagPrecedence(t *testing.T) {
	db := fixture.Build(t, fixture.Singular)
	t.Setenv("MUSICSTORE_DATABASE", db)
	t.Setenv("MUSICSTORE_TOP_N", "3")

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "> Top 3 albums with most sales (SQL)")

	out, err = execute(t, "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "> Top 1 albums with most sales (SQL)")
}

func TestReport_InvalidConfig(t *testing.T) {
	db := fixture.Build(t, fixture.Singular)

	_, err := execute(t, "--db", db, "--keying", "postal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = execute(t, "--db", db, "--top", "0")
	require.Error(t, err)
}

func TestReport_MissingStore(t *testing.T) {
	_, err := execute(t, "--db", t.TempDir()+"/missing.sqlite")
	require.ErrorIs(t, err, store.ErrNotExist)
}

func TestVerify(t *testing.T) {
	db := fixture.Build(t, fixture.Plural)

	out, err := execute(t, "verify", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "artists")
	assert.Contains(t, out, "invoice_items")
	assert.NotContains(t, out, "MISMATCH")
}

func TestSchema(t *testing.T) {
	db := fixture.Build(t, fixture.Singular)

	out, err := execute(t, "schema", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "PlaylistTrack")
	assert.Contains(t, out, "ref_table")

	out, err = execute(t, "schema", "--db", db, "--select", "$.tables[*].name")
	require.NoError(t, err)
	assert.Contains(t, out, `"Artist"`)
	assert.Contains(t, out, `"InvoiceLine"`)
	assert.NotContains(t, out, "columns")
}

func TestSchema_BadSelector(t *testing.T) {
	db := fixture.Build(t, fixture.Singular)

	_, err := execute(t, "schema", "--db", db, "--select", "$.tables[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jsonpath")
}
