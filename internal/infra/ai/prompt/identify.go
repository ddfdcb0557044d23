package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/herbalens/internal/domain/plants"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
// The model may only answer with one of the catalog ids.
func GetSystemPrompt(catalog []plants.Record) string {
	var b strings.Builder
	for _, r := range catalog {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", r.ID, r.Name, r.ScientificName)
	}
	return `You are a botanist identifying medicinal plants from photographs. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- plant_id must be exactly one of the ids listed under "Known plants". Pick the closest match even when unsure.
- confidence is an integer percentage from 0 to 100.
- health_status is one of: healthy, warning, diseased.
- diseases lists visible problems (for example "Leaf Spot"). It must be empty when health_status is healthy.

Known plants:
` + b.String() + `
Schema (example with empty values):
{
  "plant_id": "<id>",
  "confidence": 0,
  "health_status": "<healthy|warning|diseased>",
  "diseases": ["<string>"]
}`
}

// GetUserPrompt is the text that accompanies the uploaded image.
func GetUserPrompt(fileName string) string {
	if fileName == "" {
		return "Identify the plant in this photo and respond with the JSON per schema."
	}
	return fmt.Sprintf("Identify the plant in this photo (%s) and respond with the JSON per schema.", fileName)
}
