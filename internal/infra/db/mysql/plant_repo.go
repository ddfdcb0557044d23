package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/herbalens/internal/domain/plants"
	"github.com/bryanwahyu/herbalens/internal/infra/db"
)

type PlantRepository struct {
	db *sql.DB
}

func NewPlantRepository(db *sql.DB) *PlantRepository {
	return &PlantRepository{db: db}
}

// EnsureSchema creates medicinal_plants when missing.
func (r *PlantRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS medicinal_plants (
  id VARCHAR(64) NOT NULL PRIMARY KEY,
  position INT NOT NULL,
  name VARCHAR(255) NOT NULL,
  scientific_name VARCHAR(255) NOT NULL,
  medicinal_uses JSON NOT NULL,
  care_recommendations JSON NOT NULL,
  growing_tips JSON NOT NULL,
  toxicity VARCHAR(16) NOT NULL,
  active_compounds JSON NOT NULL,
  image VARCHAR(1024) NOT NULL
) CHARACTER SET utf8mb4;`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Seed upserts records, keeping their slice order as the catalog order.
func (r *PlantRepository) Seed(ctx context.Context, records []plants.Record) error {
	const q = `
INSERT INTO medicinal_plants
  (id, position, name, scientific_name, medicinal_uses, care_recommendations, growing_tips, toxicity, active_compounds, image)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  position=VALUES(position), name=VALUES(name), scientific_name=VALUES(scientific_name),
  medicinal_uses=VALUES(medicinal_uses), care_recommendations=VALUES(care_recommendations),
  growing_tips=VALUES(growing_tips), toxicity=VALUES(toxicity),
  active_compounds=VALUES(active_compounds), image=VALUES(image);
`
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

// LoadAll implements plants.Source.
func (r *PlantRepository) LoadAll(ctx context.Context) ([]plants.Record, error) {
	q := "SELECT " + db.Columns + " FROM medicinal_plants ORDER BY position ASC, id ASC;"
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
