package service

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"strings"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

const (
	defaultCollegeLimit = 10
	maxCollegeLimit     = 50
	minCollegeQuery     = 2
	minCollegeName      = 3
)

//go:embed colleges.txt
var collegeCatalogue string

type CollegeService struct {
	repo    store.Colleges
	catalog []string
	log     *slog.Logger
}

func NewCollegeService(repo store.Colleges, log *slog.Logger) *CollegeService {
	if log == nil {
		log = slog.Default()
	}
	return &CollegeService{repo: repo, catalog: parseCatalogue(collegeCatalogue), log: log}
}

func parseCatalogue(raw string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Search merges catalogue matches with user-added colleges. Catalogue
// entries come first; duplicates are dropped case-insensitively.
func (s *CollegeService) Search(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if len(query) < minCollegeQuery {
		return []string{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultCollegeLimit
	case limit > maxCollegeLimit:
		limit = maxCollegeLimit
	}

	lowered := strings.ToLower(query)
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	add := func(name string) {
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup || len(out) >= limit {
			return
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}

	for _, name := range s.catalog {
		if strings.Contains(strings.ToLower(name), lowered) {
			add(name)
		}
	}
	stored, err := s.repo.SearchColleges(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	for _, c := range stored {
		add(c.Name)
	}
	return out, nil
}

// Add registers a college name typed by a user. A name already stored has
// its usage count bumped instead; the bool reports whether it was created.
func (s *CollegeService) Add(ctx context.Context, req model.AddCollegeRequest) (*model.College, bool, error) {
	name := strings.TrimSpace(req.Name)
	addedBy := strings.TrimSpace(req.AddedBy)
	if name == "" || addedBy == "" {
		return nil, false, invalid("", "College name and user info are required")
	}
	if len(name) < minCollegeName {
		return nil, false, invalid("name", "College name must be at least 3 characters long")
	}
	if s.inCatalogue(name) {
		return nil, false, invalid("name", "College already exists in our database")
	}

	existing, err := s.repo.FindCollegeByName(ctx, name)
	if err == nil {
		c, err := s.repo.IncrementCollegeUsage(ctx, existing.ID)
		return c, false, mapStoreError(err)
	}
	if !store.IsNotFound(err) {
		return nil, false, err
	}

	c := &model.College{Name: name, AddedBy: addedBy, UsageCount: 1}
	if err := s.repo.CreateCollege(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return s.retryIncrement(ctx, name)
		}
		return nil, false, err
	}
	s.log.InfoContext(ctx, "college added", slog.String("college_id", c.ID), slog.String("added_by", addedBy))
	return c, true, nil
}

// retryIncrement handles a concurrent insert of the same name.
func (s *CollegeService) retryIncrement(ctx context.Context, name string) (*model.College, bool, error) {
	existing, err := s.repo.FindCollegeByName(ctx, name)
	if err != nil {
		return nil, false, mapStoreError(err)
	}
	c, err := s.repo.IncrementCollegeUsage(ctx, existing.ID)
	return c, false, mapStoreError(err)
}

func (s *CollegeService) SetVerified(ctx context.Context, id string, verified bool) (*model.College, error) {
	c, err := s.repo.SetCollegeVerified(ctx, id, verified)
	return c, mapStoreError(err)
}

func (s *CollegeService) inCatalogue(name string) bool {
	for _, c := range s.catalog {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
