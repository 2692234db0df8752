// Package memory is a process-local store.Store. It backs development runs
// without a database and doubles as the store in service and handler tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]model.User
	products      map[string]model.Product
	opportunities map[string]model.Opportunity
	colleges      map[string]model.College
	now           func() time.Time
	seq           int64

	// calls counts every store operation served.
	calls int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:         make(map[string]model.User),
		products:      make(map[string]model.Product),
		opportunities: make(map[string]model.Opportunity),
		colleges:      make(map[string]model.College),
		now:           time.Now,
	}
}

// SetClock replaces the time source used for CreatedAt stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Calls returns how many store operations have been served.
func (s *Store) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

// stamp returns a creation time that strictly increases across inserts so
// newest-first ordering is stable even within one clock tick.
func (s *Store) stamp() time.Time {
	s.seq++
	return s.now().UTC().Add(time.Duration(s.seq))
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return store.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.stamp()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []string) (map[string]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	out := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (s *Store) ListUsers(_ context.Context, f store.UserFilter) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	users := s.filterUsers(f)
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return page(users, f.Skip, f.Limit), nil
}

func (s *Store) CountUsers(_ context.Context, f store.UserFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	return int64(len(s.filterUsers(f))), nil
}

func (s *Store) filterUsers(f store.UserFilter) []model.User {
	search := strings.ToLower(f.Search)
	var out []model.User
	for _, u := range s.users {
		if f.Verified != nil && u.Verified != *f.Verified {
			continue
		}
		if f.CreatedSince != nil && u.CreatedAt.Before(*f.CreatedSince) {
			continue
		}
		if search != "" && !containsFold(search, u.FullName, u.Email, u.Username, u.CollegeName) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (s *Store) UpdateUser(_ context.Context, id string, upd store.UserUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Username != nil && *upd.Username != u.Username {
		for otherID, other := range s.users {
			if otherID != id && other.Username == *upd.Username {
				return nil, store.ErrDuplicate
			}
		}
		u.Username = *upd.Username
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.CollegeName != nil {
		u.CollegeName = *upd.CollegeName
	}
	if upd.Mobile != nil {
		u.Mobile = *upd.Mobile
	}
	if upd.Verified != nil {
		u.Verified = *upd.Verified
	}
	s.users[id] = u
	return &u, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// --- products ---

func (s *Store) CreateProduct(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	p.ID = uuid.NewString()
	p.CreatedAt = s.stamp()
	s.products[p.ID] = *p
	return nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, f store.ProductFilter) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	products := s.filterProducts(f)
	sort.Slice(products, func(i, j int) bool {
		if products[i].Featured != products[j].Featured {
			return products[i].Featured
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return page(products, 0, f.Limit), nil
}

func (s *Store) CountProducts(_ context.Context, f store.ProductFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	return int64(len(s.filterProducts(f))), nil
}

func (s *Store) filterProducts(f store.ProductFilter) []model.Product {
	query := strings.ToLower(f.Query)
	var out []model.Product
	for _, p := range s.products {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if query != "" && !containsFold(query, p.Title, p.Category) {
			continue
		}
		if f.State != "" && p.State != f.State {
			continue
		}
		if f.City != "" && p.City != f.City {
			continue
		}
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		if f.Sold != nil && p.Sold != *f.Sold {
			continue
		}
		if f.CreatedSince != nil && p.CreatedAt.Before(*f.CreatedSince) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Store) DeleteProduct(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	p, ok := s.products[id]
	if !ok || (ownerID != "" && p.UserID != ownerID) {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) SetProductSold(_ context.Context, id, ownerID string, sold bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	p, ok := s.products[id]
	if !ok || (ownerID != "" && p.UserID != ownerID) {
		return store.ErrNotFound
	}
	p.Sold = sold
	s.products[id] = p
	return nil
}

func (s *Store) DeleteProductsByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	var n int64
	for id, p := range s.products {
		if p.UserID == userID {
			delete(s.products, id)
			n++
		}
	}
	return n, nil
}

// --- opportunities ---

func (s *Store) CreateOpportunity(_ context.Context, o *model.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	o.ID = uuid.NewString()
	o.CreatedAt = s.stamp()
	s.opportunities[o.ID] = cloneOpportunity(*o)
	return nil
}

func (s *Store) GetOpportunity(_ context.Context, id string) (*model.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	o, ok := s.opportunities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o = cloneOpportunity(o)
	return &o, nil
}

func (s *Store) ListOpportunities(_ context.Context, f store.OpportunityFilter) ([]model.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	items := s.filterOpportunities(f)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Featured != items[j].Featured {
			return items[i].Featured
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return page(items, f.Skip, f.Limit), nil
}

func (s *Store) CountOpportunities(_ context.Context, f store.OpportunityFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	return int64(len(s.filterOpportunities(f))), nil
}

func (s *Store) filterOpportunities(f store.OpportunityFilter) []model.Opportunity {
	var out []model.Opportunity
	for _, o := range s.opportunities {
		if f.Active != nil && o.Active != *f.Active {
			continue
		}
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.CreatedSince != nil && o.CreatedAt.Before(*f.CreatedSince) {
			continue
		}
		out = append(out, cloneOpportunity(o))
	}
	return out
}

func (s *Store) CountOpportunitiesByType(context.Context) ([]model.TypeCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	counts := make(map[string]int64)
	for _, o := range s.opportunities {
		counts[o.Type]++
	}
	out := make([]model.TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, model.TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (s *Store) UpdateOpportunity(_ context.Context, id string, upd store.OpportunityUpdate) (*model.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	o, ok := s.opportunities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Title != nil {
		o.Title = *upd.Title
	}
	if upd.Company != nil {
		o.Company = *upd.Company
	}
	if upd.Type != nil {
		o.Type = *upd.Type
	}
	if upd.Location != nil {
		o.Location = *upd.Location
	}
	if upd.Description != nil {
		o.Description = *upd.Description
	}
	if upd.Active != nil {
		o.Active = *upd.Active
	}
	if upd.Featured != nil {
		o.Featured = *upd.Featured
	}
	s.opportunities[id] = o
	o = cloneOpportunity(o)
	return &o, nil
}

func (s *Store) SetOpportunityActive(_ context.Context, id, ownerID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	o, ok := s.opportunities[id]
	if !ok || (ownerID != "" && o.UserID != ownerID) {
		return store.ErrNotFound
	}
	o.Active = active
	s.opportunities[id] = o
	return nil
}

func (s *Store) DeleteOpportunity(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	o, ok := s.opportunities[id]
	if !ok || (ownerID != "" && o.UserID != ownerID) {
		return store.ErrNotFound
	}
	delete(s.opportunities, id)
	return nil
}

func (s *Store) DeleteOpportunitiesByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	var n int64
	for id, o := range s.opportunities {
		if o.UserID == userID {
			delete(s.opportunities, id)
			n++
		}
	}
	return n, nil
}

// --- colleges ---

func (s *Store) SearchColleges(_ context.Context, query string, limit int) ([]model.College, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	q := strings.ToLower(query)
	var out []model.College
	for _, c := range s.colleges {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Verified != out[j].Verified {
			return out[i].Verified
		}
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, 0, limit), nil
}

func (s *Store) FindCollegeByName(_ context.Context, name string) (*model.College, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	for _, c := range s.colleges {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateCollege(_ context.Context, c *model.College) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	for _, existing := range s.colleges {
		if strings.EqualFold(existing.Name, c.Name) {
			return store.ErrDuplicate
		}
	}
	c.ID = strconv.Itoa(len(s.colleges) + 1)
	c.CreatedAt = s.stamp()
	c.UpdatedAt = c.CreatedAt
	s.colleges[c.ID] = *c
	return nil
}

func (s *Store) IncrementCollegeUsage(_ context.Context, id string) (*model.College, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	c, ok := s.colleges[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.UsageCount++
	c.UpdatedAt = s.now().UTC()
	s.colleges[id] = c
	return &c, nil
}

func (s *Store) SetCollegeVerified(_ context.Context, id string, verified bool) (*model.College, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	c, ok := s.colleges[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Verified = verified
	c.UpdatedAt = s.now().UTC()
	s.colleges[id] = c
	return &c, nil
}

func page[T any](items []T, skip, limit int) []T {
	if skip > 0 {
		if skip >= len(items) {
			return nil
		}
		items = items[skip:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func cloneOpportunity(o model.Opportunity) model.Opportunity {
	o.Requirements = append([]string(nil), o.Requirements...)
	o.Tags = append([]string(nil), o.Tags...)
	if o.Deadline != nil {
		d := *o.Deadline
		o.Deadline = &d
	}
	return o
}
