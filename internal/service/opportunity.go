package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/ratelimit"
	"github.com/passiton/backend/internal/store"
)

const maxOpportunitiesPerUser = 10

type OpportunityStore interface {
	store.Opportunities
	userLookup
}

type OpportunityService struct {
	repo      OpportunityStore
	cooldown  *ratelimit.Cooldown
	sanitizer *bluemonday.Policy
	log       *slog.Logger
}

func NewOpportunityService(repo OpportunityStore, cooldown *ratelimit.Cooldown, log *slog.Logger) *OpportunityService {
	if log == nil {
		log = slog.Default()
	}
	return &OpportunityService{
		repo:      repo,
		cooldown:  cooldown,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
}

func (s *OpportunityService) Create(ctx context.Context, id model.Identity, req model.CreateOpportunityRequest) (*model.Opportunity, error) {
	if err := checkCooldown(s.cooldown, "opportunity:"+id.ID()); err != nil {
		return nil, err
	}

	count, err := s.repo.CountOpportunities(ctx, store.OpportunityFilter{UserID: id.ID()})
	if err != nil {
		return nil, err
	}
	if count >= maxOpportunitiesPerUser {
		return nil, &LimitError{Message: fmt.Sprintf("You can only create up to %d opportunities.", maxOpportunitiesPerUser)}
	}

	o := &model.Opportunity{
		Title:        s.clean(req.Title),
		Company:      s.clean(req.Company),
		Type:         strings.TrimSpace(req.Type),
		Location:     s.clean(req.Location),
		Duration:     s.clean(req.Duration),
		Salary:       s.clean(req.Salary),
		Description:  s.clean(req.Description),
		Requirements: s.cleanList(req.Requirements),
		Tags:         s.cleanList(req.Tags),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		UserID:       id.ID(),
		Active:       true,
		Featured:     id.IsAdmin(),
	}
	if err := validateOpportunity(o); err != nil {
		return nil, err
	}
	if deadline := strings.TrimSpace(req.Deadline); deadline != "" {
		t, err := parseDeadline(deadline)
		if err != nil {
			return nil, invalid("deadline", "Deadline must be a valid date.")
		}
		o.Deadline = &t
	}

	if err := s.repo.CreateOpportunity(ctx, o); err != nil {
		return nil, err
	}
	o.PosterVerified = id.IsAdmin() || (id.User != nil && id.User.Verified)
	s.log.InfoContext(ctx, "opportunity posted", slog.String("opportunity_id", o.ID), slog.String("user_id", o.UserID))
	return o, nil
}

func validateOpportunity(o *model.Opportunity) error {
	switch {
	case len(o.Title) < 3:
		return invalid("title", "Title must be at least 3 characters long.")
	case len(o.Company) < 2:
		return invalid("company", "Company name must be at least 2 characters long.")
	case !slices.Contains(model.OpportunityTypes, o.Type):
		return invalid("type", "Invalid opportunity type.")
	case len(o.Location) < 2:
		return invalid("location", "Location must be provided.")
	case len(o.Description) < 10:
		return invalid("description", "Description must be at least 10 characters long.")
	case o.ContactEmail == "" || validate.Var(o.ContactEmail, "email") != nil:
		return invalid("contactEmail", "Valid contact email is required.")
	}
	return nil
}

func parseDeadline(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, v)
}

func (s *OpportunityService) Delete(ctx context.Context, id model.Identity, opportunityID string) error {
	if strings.TrimSpace(opportunityID) == "" {
		return invalid("id", "Opportunity ID required")
	}
	return mapStoreError(s.repo.DeleteOpportunity(ctx, opportunityID, id.ID()))
}

// SetActive lets a poster pause or resume their own listing. The
// administrator moderates through the admin endpoints instead.
func (s *OpportunityService) SetActive(ctx context.Context, id model.Identity, opportunityID string, active bool) error {
	if id.IsAdmin() {
		return &LimitError{Message: "Admin users should use admin APIs"}
	}
	return mapStoreError(s.repo.SetOpportunityActive(ctx, opportunityID, id.ID(), active))
}

func (s *OpportunityService) ListPublic(ctx context.Context) ([]model.Opportunity, error) {
	active := true
	return s.list(ctx, store.OpportunityFilter{Active: &active})
}

func (s *OpportunityService) ListMine(ctx context.Context, id model.Identity) ([]model.Opportunity, error) {
	return s.list(ctx, store.OpportunityFilter{UserID: id.ID()})
}

func (s *OpportunityService) list(ctx context.Context, f store.OpportunityFilter) ([]model.Opportunity, error) {
	items, err := s.repo.ListOpportunities(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Opportunity{}
	}
	if err := attachPosters(ctx, s.repo, items); err != nil {
		return nil, err
	}
	return items, nil
}

func attachPosters(ctx context.Context, users userLookup, items []model.Opportunity) error {
	ids := make([]string, 0, len(items))
	for _, o := range items {
		if o.UserID != model.AdminID {
			ids = append(ids, o.UserID)
		}
	}
	posters, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].UserID == model.AdminID {
			items[i].PosterVerified = true
			continue
		}
		if u, ok := posters[items[i].UserID]; ok {
			items[i].PosterVerified = u.Verified
			items[i].PosterName = u.FullName
			items[i].PosterEmail = u.Email
		}
	}
	return nil
}

func (s *OpportunityService) clean(v string) string {
	return sanitizeText(s.sanitizer, v)
}

func (s *OpportunityService) cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := s.clean(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
