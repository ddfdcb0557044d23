package analysis

import (
	"fmt"
	"time"

	"github.com/bryanwahyu/herbalens/internal/domain/plants"
)

// HealthStatus enum
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthDiseased HealthStatus = "diseased"
)

// State of a pipeline
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateResult    State = "result"
)

// Image is the raw upload handed to a Classifier. Bytes are never decoded here.
type Image struct {
	Name        string
	ContentType string
	Bytes       []byte
}

// Result is one identification: the catalog record plus synthesized health data.
type Result struct {
	plants.Record

	Confidence   int          `json:"confidence"`
	HealthStatus HealthStatus `json:"healthStatus"`
	Diseases     []string     `json:"diseases"`

	AnalysisID string    `json:"analysisId,omitempty"`
	ImageRef   string    `json:"imageRef,omitempty"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// Validate checks the invariants every classifier must honour.
func (r Result) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("result has no plant id")
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return fmt.Errorf("confidence %d out of range", r.Confidence)
	}
	switch r.HealthStatus {
	case HealthHealthy:
		if len(r.Diseases) != 0 {
			return fmt.Errorf("healthy result lists %d diseases", len(r.Diseases))
		}
	case HealthWarning, HealthDiseased:
		if len(r.Diseases) == 0 {
			return fmt.Errorf("%s result lists no diseases", r.HealthStatus)
		}
	default:
		return fmt.Errorf("unknown health status %q", r.HealthStatus)
	}
	return nil
}

// Clone deep-copies the result.
func (r Result) Clone() Result {
	r.Record = r.Record.Clone()
	r.Diseases = append([]string{}, r.Diseases...)
	return r
}

// Snapshot is the externally visible pipeline state.
type Snapshot struct {
	State    State   `json:"state"`
	ImageRef string  `json:"imageRef,omitempty"`
	Result   *Result `json:"result,omitempty"`
	Notice   string  `json:"notice,omitempty"`
}
