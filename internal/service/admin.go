package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	recentWindow     = 7 * 24 * time.Hour
)

type UserListQuery struct {
	Page     int
	Limit    int
	Verified string
	Search   string
}

type OpportunityListQuery struct {
	Page   int
	Limit  int
	Status string
	Type   string
}

// AdminService backs the moderation endpoints. Callers must already have
// checked that the requester is the administrator.
type AdminService struct {
	repo store.Store
	now  func() time.Time
	log  *slog.Logger
}

func NewAdminService(repo store.Store, log *slog.Logger) *AdminService {
	if log == nil {
		log = slog.Default()
	}
	return &AdminService{repo: repo, now: time.Now, log: log}
}

func (s *AdminService) Stats(ctx context.Context) (model.Stats, error) {
	since := s.now().Add(-recentWindow)
	yes, no := true, false

	var stats model.Stats
	var err error
	count := func(fn func() (int64, error), dst *int64) {
		if err != nil {
			return
		}
		*dst, err = fn()
	}

	count(func() (int64, error) { return s.repo.CountUsers(ctx, store.UserFilter{}) }, &stats.Users.Total)
	count(func() (int64, error) { return s.repo.CountUsers(ctx, store.UserFilter{Verified: &yes}) }, &stats.Users.Verified)
	count(func() (int64, error) { return s.repo.CountUsers(ctx, store.UserFilter{CreatedSince: &since}) }, &stats.Users.Recent)
	count(func() (int64, error) { return s.repo.CountOpportunities(ctx, store.OpportunityFilter{}) }, &stats.Opportunities.Total)
	count(func() (int64, error) {
		return s.repo.CountOpportunities(ctx, store.OpportunityFilter{Active: &yes})
	}, &stats.Opportunities.Active)
	count(func() (int64, error) {
		return s.repo.CountOpportunities(ctx, store.OpportunityFilter{CreatedSince: &since})
	}, &stats.Opportunities.Recent)
	count(func() (int64, error) { return s.repo.CountProducts(ctx, store.ProductFilter{}) }, &stats.Products.Total)
	count(func() (int64, error) { return s.repo.CountProducts(ctx, store.ProductFilter{Sold: &yes}) }, &stats.Products.Sold)
	count(func() (int64, error) { return s.repo.CountProducts(ctx, store.ProductFilter{Sold: &no}) }, &stats.Products.Active)
	count(func() (int64, error) {
		return s.repo.CountProducts(ctx, store.ProductFilter{CreatedSince: &since})
	}, &stats.Products.Recent)
	if err != nil {
		return model.Stats{}, err
	}
	stats.Opportunities.Inactive = stats.Opportunities.Total - stats.Opportunities.Active

	byType, err := s.repo.CountOpportunitiesByType(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	if byType == nil {
		byType = []model.TypeCount{}
	}
	stats.Opportunities.ByType = byType
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, q UserListQuery) ([]model.User, model.Pagination, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	f := store.UserFilter{
		Verified: parseTriState(q.Verified, "true", "false"),
		Search:   strings.TrimSpace(q.Search),
	}

	total, err := s.repo.CountUsers(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	f.Skip = (page - 1) * limit
	f.Limit = limit
	users, err := s.repo.ListUsers(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, model.NewPagination(page, limit, total), nil
}

func (s *AdminService) UpdateUser(ctx context.Context, userID string, in model.UserUpdateInput) (*model.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("userId", "User ID required")
	}
	upd := store.UserUpdate{
		FullName:    trimmedPtr(in.FullName),
		Username:    trimmedPtr(in.Username),
		CollegeName: trimmedPtr(in.CollegeName),
		Mobile:      trimmedPtr(in.Mobile),
		Verified:    in.Verified,
	}
	if upd.Username != nil && *upd.Username == "" {
		return nil, invalid("username", "Username cannot be empty")
	}
	if upd.Empty() {
		return s.getUser(ctx, userID)
	}

	u, err := s.repo.UpdateUser(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, invalid("username", "Username already taken")
		}
		return nil, mapStoreError(err)
	}
	s.log.InfoContext(ctx, "user updated by admin", slog.String("user_id", userID))
	return u, nil
}

func (s *AdminService) SetUserVerified(ctx context.Context, userID string, verified *bool) (*model.User, error) {
	if verified == nil {
		return nil, invalid("verified", "Verified field must be a boolean")
	}
	return s.UpdateUser(ctx, userID, model.UserUpdateInput{Verified: verified})
}

func (s *AdminService) UserDetail(ctx context.Context, userID string) (*model.AdminUserDetail, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.ListProducts(ctx, store.ProductFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	opportunities, err := s.repo.ListOpportunities(ctx, store.OpportunityFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	sortNewestProducts(products)
	sortNewestOpportunities(opportunities)

	detail := &model.AdminUserDetail{
		Success:       true,
		User:          u,
		Products:      append([]model.Product{}, products...),
		Opportunities: append([]model.Opportunity{}, opportunities...),
	}
	for _, p := range products {
		detail.Stats.TotalProducts++
		if p.Sold {
			detail.Stats.SoldProducts++
		} else {
			detail.Stats.ActiveProducts++
		}
	}
	for _, o := range opportunities {
		detail.Stats.TotalOpportunities++
		if o.Active {
			detail.Stats.ActiveOpportunities++
		} else {
			detail.Stats.InactiveOpportunities++
		}
	}
	return detail, nil
}

// DeleteUserContent removes one listing owned by userID. With an empty
// kind and itemID the account and all of its listings are removed.
func (s *AdminService) DeleteUserContent(ctx context.Context, userID, kind, itemID string) (string, error) {
	kind = strings.TrimSpace(kind)
	itemID = strings.TrimSpace(itemID)

	switch {
	case kind == "" && itemID == "":
		return "user", s.deleteAccount(ctx, userID)
	case kind == "" || itemID == "":
		return "", invalid("", "Type and itemId required")
	case kind == "product":
		return kind, mapStoreError(s.repo.DeleteProduct(ctx, itemID, userID))
	case kind == "opportunity":
		return kind, mapStoreError(s.repo.DeleteOpportunity(ctx, itemID, userID))
	default:
		return "", invalid("type", "Invalid type")
	}
}

func (s *AdminService) deleteAccount(ctx context.Context, userID string) error {
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	products, err := s.repo.DeleteProductsByUser(ctx, userID)
	if err != nil {
		return err
	}
	opportunities, err := s.repo.DeleteOpportunitiesByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return mapStoreError(err)
	}
	s.log.InfoContext(ctx, "user deleted by admin",
		slog.String("user_id", userID),
		slog.Int64("products", products),
		slog.Int64("opportunities", opportunities),
	)
	return nil
}

func (s *AdminService) ListOpportunities(ctx context.Context, q OpportunityListQuery) ([]model.Opportunity, model.Pagination, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	f := store.OpportunityFilter{
		Active: parseTriState(q.Status, "active", "inactive"),
		Type:   strings.TrimSpace(q.Type),
	}

	total, err := s.repo.CountOpportunities(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	f.Skip = (page - 1) * limit
	f.Limit = limit
	items, err := s.repo.ListOpportunities(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if items == nil {
		items = []model.Opportunity{}
	}
	if err := attachPosters(ctx, s.repo, items); err != nil {
		return nil, model.Pagination{}, err
	}
	return items, model.NewPagination(page, limit, total), nil
}

func (s *AdminService) UpdateOpportunity(ctx context.Context, opportunityID string, in model.OpportunityUpdateInput) (*model.Opportunity, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, invalid("opportunityId", "Opportunity ID required")
	}
	upd := store.OpportunityUpdate{
		Title:       trimmedPtr(in.Title),
		Company:     trimmedPtr(in.Company),
		Type:        trimmedPtr(in.Type),
		Location:    trimmedPtr(in.Location),
		Description: trimmedPtr(in.Description),
		Active:      in.Active,
		Featured:    in.Featured,
	}
	if upd.Type != nil && !slices.Contains(model.OpportunityTypes, *upd.Type) {
		return nil, invalid("type", "Invalid opportunity type.")
	}
	if upd.Empty() {
		o, err := s.repo.GetOpportunity(ctx, opportunityID)
		return o, mapStoreError(err)
	}
	o, err := s.repo.UpdateOpportunity(ctx, opportunityID, upd)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return o, nil
}

func (s *AdminService) DeleteOpportunity(ctx context.Context, opportunityID string) error {
	if strings.TrimSpace(opportunityID) == "" {
		return invalid("id", "Opportunity ID required")
	}
	return mapStoreError(s.repo.DeleteOpportunity(ctx, opportunityID, ""))
}

func (s *AdminService) getUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return u, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func parseTriState(v, yes, no string) *bool {
	switch v {
	case yes:
		b := true
		return &b
	case no:
		b := false
		return &b
	default:
		return nil
	}
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func sortNewestProducts(items []model.Product) {
	slices.SortStableFunc(items, func(a, b model.Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
}

func sortNewestOpportunities(items []model.Opportunity) {
	slices.SortStableFunc(items, func(a, b model.Opportunity) int { return b.CreatedAt.Compare(a.CreatedAt) })
}
