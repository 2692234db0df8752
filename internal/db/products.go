package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

const productColumns = `id, title, price, category, image, college, email, phone, state, city, user_id, sold, featured, created_at`

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&p.Category,
		&p.Image,
		&p.College,
		&p.Email,
		&p.Phone,
		&p.State,
		&p.City,
		&p.UserID,
		&p.Sold,
		&p.Featured,
		&p.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (db *Postgres) CreateProduct(ctx context.Context, p *model.Product) error {
	id := uuid.NewString()
	createdAt := db.stamp()

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := db.Pool.Exec(ctx, query,
		id, p.Title, p.Price, p.Category, p.Image, p.College, p.Email, p.Phone,
		p.State, p.City, p.UserID, p.Sold, p.Featured, createdAt,
	); err != nil {
		return mapError(err)
	}
	p.ID = id
	p.CreatedAt = createdAt
	return nil
}

func (db *Postgres) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(db.Pool.QueryRow(ctx, query, id))
}

func productConditions(f store.ProductFilter) *conditions {
	c := &conditions{}
	if f.Category != "" {
		c.add("LOWER(category) = LOWER(?)", f.Category)
	}
	if f.Query != "" {
		c.add("(title ILIKE ? OR category ILIKE ?)", containsPattern(f.Query))
	}
	if f.State != "" {
		c.add("state = ?", f.State)
	}
	if f.City != "" {
		c.add("city = ?", f.City)
	}
	if f.UserID != "" {
		c.add("user_id = ?", f.UserID)
	}
	if f.Sold != nil {
		c.add("sold = ?", *f.Sold)
	}
	if f.CreatedSince != nil {
		c.add("created_at >= ?", *f.CreatedSince)
	}
	return c
}

func (db *Postgres) ListProducts(ctx context.Context, f store.ProductFilter) ([]model.Product, error) {
	c := productConditions(f)
	query := `SELECT ` + productColumns + ` FROM products` + c.where() +
		` ORDER BY featured DESC, created_at DESC` + c.page(0, f.Limit)

	rows, err := db.Pool.Query(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (db *Postgres) CountProducts(ctx context.Context, f store.ProductFilter) (int64, error) {
	c := productConditions(f)
	var n int64
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+c.where(), c.args...).Scan(&n)
	return n, err
}

func (db *Postgres) DeleteProduct(ctx context.Context, id, ownerID string) error {
	if ownerID == "" {
		return affectedOne(db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id))
	}
	return affectedOne(db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, ownerID))
}

func (db *Postgres) SetProductSold(ctx context.Context, id, ownerID string, sold bool) error {
	if ownerID == "" {
		return affectedOne(db.Pool.Exec(ctx, `UPDATE products SET sold = $2 WHERE id = $1`, id, sold))
	}
	return affectedOne(db.Pool.Exec(ctx,
		`UPDATE products SET sold = $2 WHERE id = $1 AND user_id = $3`, id, sold, ownerID))
}

func (db *Postgres) DeleteProductsByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM products WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
