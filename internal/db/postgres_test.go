package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passiton/backend/internal/config"
	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

var fixedNow = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

func newTestPostgres(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	pg := New(mockDB)
	pg.now = func() time.Time { return fixedNow }
	return pg, mockDB
}

func userRow(id, email, username string, verified bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "email", "username", "full_name", "password_hash",
		"college_id_url", "verified", "college_name", "mobile", "created_at",
	}).AddRow(id, email, username, "Alice Doe", "hash", "https://cdn/id.png", verified, "IIT Delhi", "9876543210", fixedNow)
}

func TestBuildPostgresURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    string
		wantErr bool
	}{
		{
			name: "database url wins",
			cfg:  config.StoreConfig{DatabaseURL: "postgres://u:p@db:5432/app"},
			want: "postgres://u:p@db:5432/app",
		},
		{
			name: "assembled from parts",
			cfg: config.StoreConfig{Postgres: config.PostgresConfig{
				Host: "db", Port: "6543", User: "app", Password: "s3cret", Database: "passiton", SSLMode: "require",
			}},
			want: "postgres://app:s3cret@db:6543/passiton?sslmode=require",
		},
		{
			name: "defaults applied",
			cfg:  config.StoreConfig{Postgres: config.PostgresConfig{User: "app", Database: "passiton"}},
			want: "postgres://app@localhost:5432/passiton?sslmode=disable",
		},
		{
			name:    "missing user",
			cfg:     config.StoreConfig{Postgres: config.PostgresConfig{Database: "passiton"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildPostgresURL(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%iit%", containsPattern("iit"))
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}

func TestConditionsNumbersPlaceholders(t *testing.T) {
	c := &conditions{}
	c.add("verified = ?", true)
	c.add("(full_name ILIKE ? OR email ILIKE ?)", "%a%")
	paging := c.page(20, 10)

	assert.Equal(t, " WHERE verified = $1 AND (full_name ILIKE $2 OR email ILIKE $2)", c.where())
	assert.Equal(t, " LIMIT $3 OFFSET $4", paging)
	assert.Equal(t, []any{true, "%a%", 10, 20}, c.args)

	empty := &conditions{}
	assert.Empty(t, empty.where())
	assert.Empty(t, empty.page(0, 0))
}

func TestCreateUser(t *testing.T) {
	t.Run("assigns id and timestamp", func(t *testing.T) {
		pg, mockDB := newTestPostgres(t)
		u := &model.User{Email: "alice@example.com", Username: "alice", PasswordHash: "hash"}

		mockDB.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "alice@example.com", "alice", "", "hash", "", false, "", "", fixedNow).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, pg.CreateUser(context.Background(), u))
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, fixedNow, u.CreatedAt)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("unique violation is a duplicate", func(t *testing.T) {
		pg, mockDB := newTestPostgres(t)

		mockDB.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})

		err := pg.CreateUser(context.Background(), &model.User{Email: "alice@example.com", Username: "alice"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		pg, mockDB := newTestPostgres(t)

		mockDB.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("Alice@Example.com").
			WillReturnRows(userRow("u-1", "alice@example.com", "alice", true))

		u, err := pg.GetUserByEmail(context.Background(), "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		assert.Equal(t, "hash", u.PasswordHash)
		assert.True(t, u.Verified)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		pg, mockDB := newTestPostgres(t)

		mockDB.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := pg.GetUserByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestListUsersAppliesFilterAndPaging(t *testing.T) {
	pg, mockDB := newTestPostgres(t)
	verified := false

	mockDB.ExpectQuery(`SELECT (.+) FROM users WHERE verified = \$1 AND \(full_name ILIKE \$2 (.+)\) ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(false, "%ali%", 10, 10).
		WillReturnRows(userRow("u-1", "alice@example.com", "alice", false))

	users, err := pg.ListUsers(context.Background(), store.UserFilter{
		Verified: &verified,
		Search:   "ali",
		Skip:     10,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestUpdateUserBuildsPartialSet(t *testing.T) {
	pg, mockDB := newTestPostgres(t)
	name := "Alice Smith"
	verified := true

	mockDB.ExpectQuery(`UPDATE users SET full_name = \$1, verified = \$2 WHERE id = \$3 RETURNING`).
		WithArgs("Alice Smith", true, "u-1").
		WillReturnRows(userRow("u-1", "alice@example.com", "alice", true))

	u, err := pg.UpdateUser(context.Background(), "u-1", store.UserUpdate{FullName: &name, Verified: &verified})
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestDeleteProductRequiresOwnerMatch(t *testing.T) {
	pg, mockDB := newTestPostgres(t)

	mockDB.ExpectExec(`DELETE FROM products WHERE id = \$1 AND user_id = \$2`).
		WithArgs("p-1", "u-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mockDB.ExpectExec(`DELETE FROM products WHERE id = \$1$`).
		WithArgs("p-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.ErrorIs(t, pg.DeleteProduct(context.Background(), "p-1", "u-2"), store.ErrNotFound)
	assert.NoError(t, pg.DeleteProduct(context.Background(), "p-1", ""))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCreateProductDoesNotPersistSellerVerified(t *testing.T) {
	pg, mockDB := newTestPostgres(t)
	p := &model.Product{
		Title: "Lab coat", Price: 200, Category: "Clothing", Image: "https://cdn/coat.png",
		College: "IIT Delhi", Email: "a@example.com", State: "Delhi", City: "New Delhi",
		UserID: "u-1", SellerVerified: true,
	}

	mockDB.ExpectExec(`INSERT INTO products \(id, title, price, category, image, college, email, phone, state, city, user_id, sold, featured, created_at\)`).
		WithArgs(pgxmock.AnyArg(), "Lab coat", 200, "Clothing", "https://cdn/coat.png", "IIT Delhi", "a@example.com", "",
			"Delhi", "New Delhi", "u-1", false, false, fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, pg.CreateProduct(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCreateOpportunityDoesNotPersistPosterVerified(t *testing.T) {
	pg, mockDB := newTestPostgres(t)
	o := &model.Opportunity{
		Title: "SDE Intern", Company: "Acme", Type: "internship", Location: "Remote",
		Description: "Build things", ContactEmail: "hr@acme.example", UserID: "admin",
		Active: true, PosterVerified: true,
	}

	mockDB.ExpectExec(`INSERT INTO opportunities \(.*user_id, active, created_at\)`).
		WithArgs(pgxmock.AnyArg(), "SDE Intern", "Acme", "internship", "Remote", "", "", "Build things",
			[]string{}, []string{}, false, pgxmock.AnyArg(), "hr@acme.example", "", "admin", true, fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, pg.CreateOpportunity(context.Background(), o))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestListProductsOrdersFeaturedFirst(t *testing.T) {
	pg, mockDB := newTestPostgres(t)
	sold := false

	rows := pgxmock.NewRows([]string{
		"id", "title", "price", "category", "image", "college", "email", "phone",
		"state", "city", "user_id", "sold", "featured", "created_at",
	}).AddRow("p-1", "Calculus textbook", 450, "Books", "", "IIT Delhi", "a@example.com", "9876543210",
		"Delhi", "New Delhi", "u-1", false, true, fixedNow)

	mockDB.ExpectQuery(`SELECT (.+) FROM products WHERE LOWER\(category\) = LOWER\(\$1\) AND sold = \$2 ORDER BY featured DESC, created_at DESC LIMIT \$3`).
		WithArgs("books", false, 50).
		WillReturnRows(rows)

	products, err := pg.ListProducts(context.Background(), store.ProductFilter{Category: "books", Sold: &sold, Limit: 50})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 450, products[0].Price)
	assert.True(t, products[0].Featured)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestDeleteOpportunitiesByUserReportsCount(t *testing.T) {
	pg, mockDB := newTestPostgres(t)

	mockDB.ExpectExec("DELETE FROM opportunities WHERE user_id").
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := pg.DeleteOpportunitiesByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCountOpportunitiesByType(t *testing.T) {
	pg, mockDB := newTestPostgres(t)

	mockDB.ExpectQuery(`SELECT type, COUNT\(\*\)\s+FROM opportunities\s+GROUP BY type`).
		WillReturnRows(pgxmock.NewRows([]string{"type", "count"}).
			AddRow("internship", int64(4)).
			AddRow("job", int64(1)))

	counts, err := pg.CountOpportunitiesByType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.TypeCount{{Type: "internship", Count: 4}, {Type: "job", Count: 1}}, counts)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSetOpportunityActiveMissing(t *testing.T) {
	pg, mockDB := newTestPostgres(t)

	mockDB.ExpectExec("UPDATE opportunities SET active").
		WithArgs("o-9", false, "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := pg.SetOpportunityActive(context.Background(), "o-9", "u-1", false)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestIncrementCollegeUsage(t *testing.T) {
	pg, mockDB := newTestPostgres(t)

	mockDB.ExpectQuery(`UPDATE colleges\s+SET usage_count = usage_count \+ 1`).
		WithArgs("c-1", fixedNow).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "added_by", "verified", "usage_count", "created_at", "updated_at"}).
			AddRow("c-1", "Ashoka University", "alice", false, 2, fixedNow, fixedNow))

	c, err := pg.IncrementCollegeUsage(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.UsageCount)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMapErrorPassesThroughUnknown(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Same(t, boom, mapError(boom))
	assert.Nil(t, mapError(nil))
	assert.NotErrorIs(t, mapError(&pgconn.PgError{Code: "23503"}), store.ErrDuplicate)
}
