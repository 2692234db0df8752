package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/passiton/backend/internal/model"
)

const collegeColumns = `id, name, added_by, verified, usage_count, created_at, updated_at`

func scanCollege(row rowScanner) (*model.College, error) {
	var c model.College
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.AddedBy,
		&c.Verified,
		&c.UsageCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (db *Postgres) SearchColleges(ctx context.Context, query string, limit int) ([]model.College, error) {
	c := &conditions{}
	c.add("name ILIKE ?", containsPattern(query))
	sql := `SELECT ` + collegeColumns + ` FROM colleges` + c.where() +
		` ORDER BY verified DESC, usage_count DESC, created_at DESC` + c.page(0, limit)

	rows, err := db.Pool.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.College{}
	for rows.Next() {
		college, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *college)
	}
	return out, rows.Err()
}

func (db *Postgres) FindCollegeByName(ctx context.Context, name string) (*model.College, error) {
	query := `SELECT ` + collegeColumns + ` FROM colleges WHERE LOWER(name) = LOWER($1)`
	return scanCollege(db.Pool.QueryRow(ctx, query, name))
}

func (db *Postgres) CreateCollege(ctx context.Context, c *model.College) error {
	id := uuid.NewString()
	now := db.stamp()

	query := `
		INSERT INTO colleges (` + collegeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	if _, err := db.Pool.Exec(ctx, query, id, c.Name, c.AddedBy, c.Verified, c.UsageCount, now); err != nil {
		return mapError(err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (db *Postgres) IncrementCollegeUsage(ctx context.Context, id string) (*model.College, error) {
	query := `
		UPDATE colleges
		SET usage_count = usage_count + 1, updated_at = $2
		WHERE id = $1
		RETURNING ` + collegeColumns
	return scanCollege(db.Pool.QueryRow(ctx, query, id, db.stamp()))
}

func (db *Postgres) SetCollegeVerified(ctx context.Context, id string, verified bool) (*model.College, error) {
	query := `
		UPDATE colleges
		SET verified = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + collegeColumns
	return scanCollege(db.Pool.QueryRow(ctx, query, id, verified, db.stamp()))
}
