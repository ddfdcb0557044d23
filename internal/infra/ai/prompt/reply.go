package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Reply is the JSON object the model is told to return.
type Reply struct {
	PlantID      string   `json:"plant_id"`
	Confidence   float64  `json:"confidence"`
	HealthStatus string   `json:"health_status"`
	Diseases     []string `json:"diseases"`
}

// ParseReply decodes the model output and normalizes it so the result always
// passes validation: confidence in 0..100, and diseases present exactly when
// the status is not healthy.
func ParseReply(content string) (Reply, error) {
	content = stripFences(content)
	var r Reply
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return Reply{}, fmt.Errorf("decode model reply: %w", err)
	}
	r.PlantID = strings.ToLower(strings.TrimSpace(r.PlantID))
	if r.PlantID == "" {
		return Reply{}, fmt.Errorf("model reply has no plant_id")
	}

	// some models answer 0.93 instead of 93
	if r.Confidence > 0 && r.Confidence <= 1 {
		r.Confidence *= 100
	}
	r.Confidence = math.Round(math.Max(0, math.Min(100, r.Confidence)))

	diseases := make([]string, 0, len(r.Diseases))
	for _, d := range r.Diseases {
		if d = strings.TrimSpace(d); d != "" {
			diseases = append(diseases, d)
		}
	}
	r.Diseases = diseases

	status := strings.ToLower(strings.TrimSpace(r.HealthStatus))
	switch {
	case len(diseases) == 0:
		status = "healthy"
	case status != "warning" && status != "diseased":
		status = "warning"
	}
	r.HealthStatus = status
	return r, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
