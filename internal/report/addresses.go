package report

import (
	"github.com/agentic-research/musicstore/internal/address"
	"github.com/agentic-research/musicstore/internal/graph"
)

// ExtractAddresses folds every customer postal address, then every invoice
// billing address, into book.
func ExtractAddresses(g *graph.Graph, book *address.Book) {
	for _, c := range g.Customers {
		book.Add(address.Fields{
			Street:     c.Street,
			City:       c.City,
			PostalCode: c.PostalCode,
			Region:     c.State,
			Country:    c.Country,
		})
	}
	for _, inv := range g.Invoices {
		book.Add(address.Fields{
			Street:     inv.Street,
			City:       inv.City,
			PostalCode: inv.PostalCode,
			Region:     inv.State,
			Country:    inv.Country,
		})
	}
}
