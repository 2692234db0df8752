package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

const opportunityColumns = `id, title, company, type, location, duration, salary, description, requirements, tags, featured, deadline, contact_email, contact_phone, user_id, active, created_at`

func scanOpportunity(row rowScanner) (*model.Opportunity, error) {
	var o model.Opportunity
	if err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Company,
		&o.Type,
		&o.Location,
		&o.Duration,
		&o.Salary,
		&o.Description,
		&o.Requirements,
		&o.Tags,
		&o.Featured,
		&o.Deadline,
		&o.ContactEmail,
		&o.ContactPhone,
		&o.UserID,
		&o.Active,
		&o.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

func (db *Postgres) CreateOpportunity(ctx context.Context, o *model.Opportunity) error {
	id := uuid.NewString()
	createdAt := db.stamp()

	query := `
		INSERT INTO opportunities (` + opportunityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	if _, err := db.Pool.Exec(ctx, query,
		id, o.Title, o.Company, o.Type, o.Location, o.Duration, o.Salary, o.Description,
		nonNil(o.Requirements), nonNil(o.Tags), o.Featured, o.Deadline,
		o.ContactEmail, o.ContactPhone, o.UserID, o.Active, createdAt,
	); err != nil {
		return mapError(err)
	}
	o.ID = id
	o.CreatedAt = createdAt
	return nil
}

func (db *Postgres) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`
	return scanOpportunity(db.Pool.QueryRow(ctx, query, id))
}

func opportunityConditions(f store.OpportunityFilter) *conditions {
	c := &conditions{}
	if f.Active != nil {
		c.add("active = ?", *f.Active)
	}
	if f.Type != "" {
		c.add("type = ?", f.Type)
	}
	if f.UserID != "" {
		c.add("user_id = ?", f.UserID)
	}
	if f.CreatedSince != nil {
		c.add("created_at >= ?", *f.CreatedSince)
	}
	return c
}

func (db *Postgres) ListOpportunities(ctx context.Context, f store.OpportunityFilter) ([]model.Opportunity, error) {
	c := opportunityConditions(f)
	query := `SELECT ` + opportunityColumns + ` FROM opportunities` + c.where() +
		` ORDER BY featured DESC, created_at DESC` + c.page(f.Skip, f.Limit)

	rows, err := db.Pool.Query(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

func (db *Postgres) CountOpportunities(ctx context.Context, f store.OpportunityFilter) (int64, error) {
	c := opportunityConditions(f)
	var n int64
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM opportunities`+c.where(), c.args...).Scan(&n)
	return n, err
}

func (db *Postgres) CountOpportunitiesByType(ctx context.Context) ([]model.TypeCount, error) {
	query := `
		SELECT type, COUNT(*)
		FROM opportunities
		GROUP BY type
		ORDER BY COUNT(*) DESC, type
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TypeCount{}
	for rows.Next() {
		var tc model.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (db *Postgres) UpdateOpportunity(ctx context.Context, id string, upd store.OpportunityUpdate) (*model.Opportunity, error) {
	if upd.Empty() {
		return db.GetOpportunity(ctx, id)
	}

	a := &assignments{}
	if upd.Title != nil {
		a.set("title", *upd.Title)
	}
	if upd.Company != nil {
		a.set("company", *upd.Company)
	}
	if upd.Type != nil {
		a.set("type", *upd.Type)
	}
	if upd.Location != nil {
		a.set("location", *upd.Location)
	}
	if upd.Description != nil {
		a.set("description", *upd.Description)
	}
	if upd.Active != nil {
		a.set("active", *upd.Active)
	}
	if upd.Featured != nil {
		a.set("featured", *upd.Featured)
	}

	query := `UPDATE opportunities SET ` + a.sql() + ` WHERE id = ` + a.whereID(id) + ` RETURNING ` + opportunityColumns
	return scanOpportunity(db.Pool.QueryRow(ctx, query, a.args...))
}

func (db *Postgres) SetOpportunityActive(ctx context.Context, id, ownerID string, active bool) error {
	if ownerID == "" {
		return affectedOne(db.Pool.Exec(ctx, `UPDATE opportunities SET active = $2 WHERE id = $1`, id, active))
	}
	return affectedOne(db.Pool.Exec(ctx,
		`UPDATE opportunities SET active = $2 WHERE id = $1 AND user_id = $3`, id, active, ownerID))
}

func (db *Postgres) DeleteOpportunity(ctx context.Context, id, ownerID string) error {
	if ownerID == "" {
		return affectedOne(db.Pool.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id))
	}
	return affectedOne(db.Pool.Exec(ctx, `DELETE FROM opportunities WHERE id = $1 AND user_id = $2`, id, ownerID))
}

func (db *Postgres) DeleteOpportunitiesByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM opportunities WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
