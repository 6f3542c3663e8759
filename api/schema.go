package api

// Catalog is the typed description of a store, discovered once at startup.
// Reports consume it instead of hard-coding table or column names.
type Catalog struct {
	// Path of the store the catalog was read from.
	Path string `json:"path"`
	// Tables in name order.
	Tables []Table `json:"tables"`
}

// Table describes one table of the store.
type Table struct {
	// Name as declared in the store (case preserved).
	Name string `json:"name"`
	// Columns in declaration order.
	Columns []Column `json:"columns"`
	// ForeignKeys declared on the table.
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
}

// Column describes one column of a table.
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NotNull bool   `json:"not_null,omitempty"`
	// PrimaryKey is the 1-based position in the primary key, 0 if not part of it.
	PrimaryKey int `json:"primary_key,omitempty"`
}

// ForeignKey is a single-column reference from this table to another.
type ForeignKey struct {
	Column    string `json:"column"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_column"`
}

// Table returns the table with the given name, or nil.
func (c *Catalog) Table(name string) *Table {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// PrimaryKey returns the primary key columns in key order.
func (t *Table) PrimaryKey() []string {
	var pk []string
	for pos := 1; ; pos++ {
		found := false
		for _, c := range t.Columns {
			if c.PrimaryKey == pos {
				pk = append(pk, c.Name)
				found = true
				break
			}
		}
		if !found {
			return pk
		}
	}
}

// IsAssociation reports whether the table only links two other tables:
// exactly two foreign keys and no column outside of them. Such tables get
// no object type in the mapping layer.
func (t *Table) IsAssociation() bool {
	if len(t.ForeignKeys) != 2 {
		return false
	}
	fkCols := make(map[string]bool, 2)
	for _, fk := range t.ForeignKeys {
		fkCols[fk.Column] = true
	}
	for _, c := range t.Columns {
		if !fkCols[c.Name] {
			return false
		}
	}
	return true
}

// Mapped reports whether the mapping layer builds objects for this table.
func (t *Table) Mapped() bool {
	return len(t.PrimaryKey()) > 0 && !t.IsAssociation()
}
