package plants

import (
	"errors"
	"fmt"
	"strings"
)

// Catalog is a read-only set of plant records. It is safe for concurrent use
// because nothing mutates it after NewCatalog returns.
type Catalog struct {
	records []Record
}

// NewCatalog validates records and freezes a private copy of them.
func NewCatalog(records []Record) (*Catalog, error) {
	if len(records) == 0 {
		return nil, errors.New("catalog must contain at least one plant")
	}
	seen := make(map[string]struct{}, len(records))
	frozen := make([]Record, 0, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("plant #%d has an empty id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate plant id: %s", r.ID)
		}
		if !r.Toxicity.Valid() {
			return nil, fmt.Errorf("plant %s has invalid toxicity %q", r.ID, r.Toxicity)
		}
		seen[r.ID] = struct{}{}
		frozen = append(frozen, r.Clone())
	}
	return &Catalog{records: frozen}, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// At returns the record at index i in catalog order.
func (c *Catalog) At(i int) Record { return c.records[i].Clone() }

// All returns every record in catalog order.
func (c *Catalog) All() []Record {
	return c.filter(func(Record) bool { return true })
}

// ByID does an exact-match lookup. The bool is false when id is unknown.
func (c *Catalog) ByID(id string) (Record, bool) {
	for _, r := range c.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return Record{}, false
}

// Search matches query case-insensitively against the name, the scientific
// name and every medicinal use. An empty query matches everything.
func (c *Catalog) Search(query string) []Record {
	q := strings.ToLower(query)
	return c.filter(func(r Record) bool {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.ScientificName), q) {
			return true
		}
		for _, use := range r.MedicinalUses {
			if strings.Contains(strings.ToLower(use), q) {
				return true
			}
		}
		return false
	})
}

// ByToxicity returns the records whose level equals t.
func (c *Catalog) ByToxicity(t Toxicity) []Record {
	return c.filter(func(r Record) bool { return r.Toxicity == t })
}

// IDs lists record ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.records))
	for i, r := range c.records {
		ids[i] = r.ID
	}
	return ids
}

func (c *Catalog) filter(keep func(Record) bool) []Record {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}
