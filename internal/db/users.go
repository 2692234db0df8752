package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

const userColumns = `id, email, username, full_name, password_hash, college_id_url, verified, college_name, mobile, created_at`

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FullName,
		&u.PasswordHash,
		&u.CollegeIDURL,
		&u.Verified,
		&u.CollegeName,
		&u.Mobile,
		&u.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (db *Postgres) CreateUser(ctx context.Context, u *model.User) error {
	id := uuid.NewString()
	createdAt := db.stamp()

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := db.Pool.Exec(ctx, query,
		id, u.Email, u.Username, u.FullName, u.PasswordHash,
		u.CollegeIDURL, u.Verified, u.CollegeName, u.Mobile, createdAt,
	); err != nil {
		return mapError(err)
	}
	u.ID = id
	u.CreatedAt = createdAt
	return nil
}

func (db *Postgres) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, username))
}

func (db *Postgres) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	out := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func userConditions(f store.UserFilter) *conditions {
	c := &conditions{}
	if f.Verified != nil {
		c.add("verified = ?", *f.Verified)
	}
	if f.Search != "" {
		c.add("(full_name ILIKE ? OR email ILIKE ? OR username ILIKE ? OR college_name ILIKE ?)", containsPattern(f.Search))
	}
	if f.CreatedSince != nil {
		c.add("created_at >= ?", *f.CreatedSince)
	}
	return c
}

func (db *Postgres) ListUsers(ctx context.Context, f store.UserFilter) ([]model.User, error) {
	c := userConditions(f)
	query := `SELECT ` + userColumns + ` FROM users` + c.where() + ` ORDER BY created_at DESC` + c.page(f.Skip, f.Limit)

	rows, err := db.Pool.Query(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (db *Postgres) CountUsers(ctx context.Context, f store.UserFilter) (int64, error) {
	c := userConditions(f)
	var n int64
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+c.where(), c.args...).Scan(&n)
	return n, err
}

func (db *Postgres) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) (*model.User, error) {
	if upd.Empty() {
		return db.GetUserByID(ctx, id)
	}

	a := &assignments{}
	if upd.FullName != nil {
		a.set("full_name", *upd.FullName)
	}
	if upd.Username != nil {
		a.set("username", *upd.Username)
	}
	if upd.CollegeName != nil {
		a.set("college_name", *upd.CollegeName)
	}
	if upd.Mobile != nil {
		a.set("mobile", *upd.Mobile)
	}
	if upd.Verified != nil {
		a.set("verified", *upd.Verified)
	}

	query := `UPDATE users SET ` + a.sql() + ` WHERE id = ` + a.whereID(id) + ` RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, a.args...))
}

func (db *Postgres) DeleteUser(ctx context.Context, id string) error {
	return affectedOne(db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}
