// Package store declares the persistence contract shared by the MongoDB,
// PostgreSQL and in-memory backends.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/passiton/backend/internal/model"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

type UserFilter struct {
	Verified     *bool
	Search       string
	CreatedSince *time.Time
	Skip         int
	Limit        int
}

type ProductFilter struct {
	// Category matches case-insensitively and exactly.
	Category string
	// Query matches title or category as a case-insensitive substring.
	Query        string
	State        string
	City         string
	UserID       string
	Sold         *bool
	CreatedSince *time.Time
	Limit        int
}

type OpportunityFilter struct {
	Active       *bool
	Type         string
	UserID       string
	CreatedSince *time.Time
	Skip         int
	Limit        int
}

type UserUpdate struct {
	FullName    *string
	Username    *string
	CollegeName *string
	Mobile      *string
	Verified    *bool
}

func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.Username == nil && u.CollegeName == nil && u.Mobile == nil && u.Verified == nil
}

type OpportunityUpdate struct {
	Title       *string
	Company     *string
	Type        *string
	Location    *string
	Description *string
	Active      *bool
	Featured    *bool
}

func (u OpportunityUpdate) Empty() bool {
	return u.Title == nil && u.Company == nil && u.Type == nil && u.Location == nil &&
		u.Description == nil && u.Active == nil && u.Featured == nil
}

type Users interface {
	// CreateUser assigns ID and CreatedAt. Returns ErrDuplicate when the
	// email or username is taken.
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
	ListUsers(ctx context.Context, f UserFilter) ([]model.User, error)
	CountUsers(ctx context.Context, f UserFilter) (int64, error)
	UpdateUser(ctx context.Context, id string, u UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Products interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]model.Product, error)
	CountProducts(ctx context.Context, f ProductFilter) (int64, error)
	// DeleteProduct removes the product; a non-empty ownerID must match.
	DeleteProduct(ctx context.Context, id, ownerID string) error
	SetProductSold(ctx context.Context, id, ownerID string, sold bool) error
	DeleteProductsByUser(ctx context.Context, userID string) (int64, error)
}

type Opportunities interface {
	CreateOpportunity(ctx context.Context, o *model.Opportunity) error
	GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error)
	ListOpportunities(ctx context.Context, f OpportunityFilter) ([]model.Opportunity, error)
	CountOpportunities(ctx context.Context, f OpportunityFilter) (int64, error)
	CountOpportunitiesByType(ctx context.Context) ([]model.TypeCount, error)
	UpdateOpportunity(ctx context.Context, id string, u OpportunityUpdate) (*model.Opportunity, error)
	SetOpportunityActive(ctx context.Context, id, ownerID string, active bool) error
	// DeleteOpportunity removes the opportunity; a non-empty ownerID must match.
	DeleteOpportunity(ctx context.Context, id, ownerID string) error
	DeleteOpportunitiesByUser(ctx context.Context, userID string) (int64, error)
}

type Colleges interface {
	SearchColleges(ctx context.Context, query string, limit int) ([]model.College, error)
	FindCollegeByName(ctx context.Context, name string) (*model.College, error)
	CreateCollege(ctx context.Context, c *model.College) error
	IncrementCollegeUsage(ctx context.Context, id string) (*model.College, error)
	SetCollegeVerified(ctx context.Context, id string, verified bool) (*model.College, error)
}

type Store interface {
	Users
	Products
	Opportunities
	Colleges
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
