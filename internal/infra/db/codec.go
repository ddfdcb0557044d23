// Package db holds row helpers shared by the MySQL and Postgres catalog sources.
package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/herbalens/internal/domain/plants"
)

// Columns is the select list both drivers use, in Row field order.
const Columns = "id, name, scientific_name, medicinal_uses, care_recommendations, growing_tips, toxicity, active_compounds, image"

// Row is a catalog row as stored: list columns hold JSON arrays.
type Row struct {
	ID                  string
	Name                string
	ScientificName      string
	MedicinalUses       string
	CareRecommendations string
	GrowingTips         string
	Toxicity            string
	ActiveCompounds     string
	Image               string
}

// Dest returns scan targets matching Columns.
func (r *Row) Dest() []any {
	return []any{
		&r.ID, &r.Name, &r.ScientificName,
		&r.MedicinalUses, &r.CareRecommendations, &r.GrowingTips,
		&r.Toxicity, &r.ActiveCompounds, &r.Image,
	}
}

// Record decodes the row.
func (r Row) Record() (plants.Record, error) {
	rec := plants.Record{
		ID:             r.ID,
		Name:           r.Name,
		ScientificName: r.ScientificName,
		Toxicity:       plants.Toxicity(strings.ToLower(strings.TrimSpace(r.Toxicity))),
		Image:          r.Image,
	}
	lists := []struct {
		col string
		raw string
		dst *[]string
	}{
		{"medicinal_uses", r.MedicinalUses, &rec.MedicinalUses},
		{"care_recommendations", r.CareRecommendations, &rec.CareRecommendations},
		{"growing_tips", r.GrowingTips, &rec.GrowingTips},
		{"active_compounds", r.ActiveCompounds, &rec.ActiveCompounds},
	}
	for _, l := range lists {
		v, err := DecodeList(l.raw)
		if err != nil {
			return plants.Record{}, fmt.Errorf("plant %s %s: %w", r.ID, l.col, err)
		}
		*l.dst = v
	}
	return rec, nil
}

// FromRecord encodes a record for insertion.
func FromRecord(rec plants.Record) Row {
	return Row{
		ID:                  rec.ID,
		Name:                rec.Name,
		ScientificName:      rec.ScientificName,
		MedicinalUses:       EncodeList(rec.MedicinalUses),
		CareRecommendations: EncodeList(rec.CareRecommendations),
		GrowingTips:         EncodeList(rec.GrowingTips),
		Toxicity:            string(rec.Toxicity),
		ActiveCompounds:     EncodeList(rec.ActiveCompounds),
		Image:               rec.Image,
	}
}

// EncodeList stores nil as an empty array so the column is always valid JSON.
func EncodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// DecodeList treats an empty column as an empty list.
func DecodeList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}
