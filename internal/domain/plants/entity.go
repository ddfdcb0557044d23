package plants

import "errors"

// ErrNotFound is returned by lookups that have nothing to show for an id.
var ErrNotFound = errors.New("plant not found")

// Toxicity enum
type Toxicity string

const (
	ToxicitySafe    Toxicity = "safe"
	ToxicityCaution Toxicity = "caution"
	ToxicityToxic   Toxicity = "toxic"
)

// Valid reports whether t is one of the known levels.
func (t Toxicity) Valid() bool {
	switch t {
	case ToxicitySafe, ToxicityCaution, ToxicityToxic:
		return true
	}
	return false
}

// Record is one immutable catalog entry.
type Record struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	ScientificName      string   `json:"scientificName"`
	MedicinalUses       []string `json:"medicinalUses"`
	CareRecommendations []string `json:"careRecommendations"`
	GrowingTips         []string `json:"growingTips"`
	Toxicity            Toxicity `json:"toxicity"`
	ActiveCompounds     []string `json:"activeCompounds"`
	Image               string   `json:"image"`
}

// Clone returns a deep copy so callers can't reach the catalog's slices.
func (r Record) Clone() Record {
	r.MedicinalUses = append([]string(nil), r.MedicinalUses...)
	r.CareRecommendations = append([]string(nil), r.CareRecommendations...)
	r.GrowingTips = append([]string(nil), r.GrowingTips...)
	r.ActiveCompounds = append([]string(nil), r.ActiveCompounds...)
	return r
}
