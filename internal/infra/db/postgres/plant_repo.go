package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/herbalens/internal/domain/plants"
	"github.com/bryanwahyu/herbalens/internal/infra/db"
)

type PlantRepository struct{ db *sql.DB }

func NewPlantRepository(db *sql.DB) *PlantRepository { return &PlantRepository{db: db} }

func (r *PlantRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS medicinal_plants (
  id TEXT PRIMARY KEY,
  position INT NOT NULL,
  name TEXT NOT NULL,
  scientific_name TEXT NOT NULL,
  medicinal_uses JSONB NOT NULL,
  care_recommendations JSONB NOT NULL,
  growing_tips JSONB NOT NULL,
  toxicity TEXT NOT NULL CHECK (toxicity IN ('safe','caution','toxic')),
  active_compounds JSONB NOT NULL,
  image TEXT NOT NULL
);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Seed insert/update records in slice order
func (r *PlantRepository) Seed(ctx context.Context, records []plants.Record) error {
	const q = `
INSERT INTO medicinal_plants
  (id, position, name, scientific_name, medicinal_uses, care_recommendations, growing_tips, toxicity, active_compounds, image)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  position=EXCLUDED.position,
  name=EXCLUDED.name,
  scientific_name=EXCLUDED.scientific_name,
  medicinal_uses=EXCLUDED.medicinal_uses,
  care_recommendations=EXCLUDED.care_recommendations,
  growing_tips=EXCLUDED.growing_tips,
  toxicity=EXCLUDED.toxicity,
  active_compounds=EXCLUDED.active_compounds,
  image=EXCLUDED.image;`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, rec := range records {
		row := db.FromRecord(rec)
		if _, err := tx.ExecContext(ctx, q,
			row.ID, i, row.Name, row.ScientificName,
			row.MedicinalUses, row.CareRecommendations, row.GrowingTips,
			row.Toxicity, row.ActiveCompounds, row.Image,
		); err != nil {
			return fmt.Errorf("seed %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// LoadAll implements plants.Source. JSONB columns are cast to text for scanning.
func (r *PlantRepository) LoadAll(ctx context.Context) ([]plants.Record, error) {
	const q = `
SELECT id, name, scientific_name,
       medicinal_uses::text, care_recommendations::text, growing_tips::text,
       toxicity, active_compounds::text, image
FROM medicinal_plants
ORDER BY position ASC, id ASC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plants.Record
	for rows.Next() {
		var row db.Row
		if err := rows.Scan(row.Dest()...); err != nil {
			return nil, err
		}
		rec, err := row.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
