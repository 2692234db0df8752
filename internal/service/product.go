package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/ratelimit"
	"github.com/passiton/backend/internal/store"
)

const (
	maxProductsPerUser = 20
	minProductPrice    = 10
	maxProductPrice    = 50000
	listingPageLimit   = 50
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type userLookup interface {
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
}

type ProductStore interface {
	store.Products
	userLookup
}

type ProductService struct {
	repo      ProductStore
	cooldown  *ratelimit.Cooldown
	sanitizer *bluemonday.Policy
	log       *slog.Logger
}

func NewProductService(repo ProductStore, cooldown *ratelimit.Cooldown, log *slog.Logger) *ProductService {
	if log == nil {
		log = slog.Default()
	}
	return &ProductService{
		repo:      repo,
		cooldown:  cooldown,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
}

func (s *ProductService) Create(ctx context.Context, id model.Identity, req model.CreateProductRequest) (*model.Product, error) {
	if err := checkCooldown(s.cooldown, "product:"+id.ID()); err != nil {
		return nil, err
	}

	count, err := s.repo.CountProducts(ctx, store.ProductFilter{UserID: id.ID()})
	if err != nil {
		return nil, err
	}
	if count >= maxProductsPerUser {
		return nil, &LimitError{Message: fmt.Sprintf("You can only upload up to %d products.", maxProductsPerUser)}
	}

	title := s.clean(req.Title)
	if len(title) < 3 {
		return nil, invalid("title", "Title must be at least 3 characters long.")
	}
	if !req.Price.Valid || req.Price.Value < minProductPrice || req.Price.Value > maxProductPrice {
		return nil, invalid("price", "Price must be between ₹10 and ₹50,000.")
	}
	phone := strings.TrimSpace(req.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, invalid("phone", "Phone number must be 10 digits.")
	}
	p := &model.Product{
		Title:    title,
		Price:    req.Price.Value,
		Category: s.clean(req.Category),
		Image:    strings.TrimSpace(req.Image),
		College:  s.clean(req.College),
		State:    s.clean(req.State),
		City:     s.clean(req.City),
		Phone:    phone,
		Email:    id.Email(),
		UserID:   id.ID(),
		Featured: id.IsAdmin(),
	}
	if p.Category == "" || p.Image == "" || p.College == "" || p.State == "" || p.City == "" {
		return nil, invalid("", "All fields are required.")
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	p.SellerVerified = id.IsAdmin() || (id.User != nil && id.User.Verified)
	s.log.InfoContext(ctx, "product listed", slog.String("product_id", p.ID), slog.String("user_id", p.UserID))
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, productID string) (*model.Product, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	out := []model.Product{*p}
	if err := s.attachVerification(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *ProductService) Delete(ctx context.Context, id model.Identity, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return invalid("id", "Product ID required")
	}
	return mapStoreError(s.repo.DeleteProduct(ctx, productID, id.ID()))
}

func (s *ProductService) SetSold(ctx context.Context, id model.Identity, productID string, sold bool) error {
	return mapStoreError(s.repo.SetProductSold(ctx, productID, id.ID(), sold))
}

func (s *ProductService) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, invalid("category", "Category missing")
	}
	return s.list(ctx, store.ProductFilter{Category: category, Limit: listingPageLimit})
}

func (s *ProductService) Search(ctx context.Context, query, state, city string) ([]model.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q", "Missing search term")
	}
	return s.list(ctx, store.ProductFilter{
		Query: query,
		State: strings.TrimSpace(state),
		City:  strings.TrimSpace(city),
		Limit: listingPageLimit,
	})
}

func (s *ProductService) ListMine(ctx context.Context, id model.Identity) ([]model.Product, error) {
	return s.list(ctx, store.ProductFilter{UserID: id.ID()})
}

func (s *ProductService) list(ctx context.Context, f store.ProductFilter) ([]model.Product, error) {
	products, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	if err := s.attachVerification(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// attachVerification marks listings whose seller is verified. Listings
// posted by the administrator always count as verified.
func (s *ProductService) attachVerification(ctx context.Context, products []model.Product) error {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if p.UserID != model.AdminID {
			ids = append(ids, p.UserID)
		}
	}
	sellers, err := s.repo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].UserID == model.AdminID {
			products[i].SellerVerified = true
			continue
		}
		if u, ok := sellers[products[i].UserID]; ok {
			products[i].SellerVerified = u.Verified
		}
	}
	return nil
}

// clean strips markup from user text and decodes the entities the policy
// escaped.
func (s *ProductService) clean(v string) string {
	return sanitizeText(s.sanitizer, v)
}

func checkCooldown(c *ratelimit.Cooldown, key string) error {
	ok, wait := c.Allow(key)
	if ok {
		return nil
	}
	secs := int(math.Ceil(wait.Seconds()))
	return &RateLimitError{
		Message:    fmt.Sprintf("Rate limit exceeded. Try again in %d sec.", secs),
		RetryAfter: time.Duration(secs) * time.Second,
	}
}

func sanitizeText(p *bluemonday.Policy, v string) string {
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(v)))
}

func mapStoreError(err error) error {
	switch {
	case store.IsNotFound(err):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
