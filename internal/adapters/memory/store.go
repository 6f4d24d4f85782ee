// Package memory holds an in-process implementation of every repository.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

// Store keeps all collections behind one mutex
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	companies map[string]*entities.Company
	users     map[string]*entities.User
	reviews   map[string]*entities.Review
	posts     map[string]*entities.BlogPost
	messages  []*entities.ContactMessage
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:       func() time.Time { return time.Now().UTC() },
		companies: make(map[string]*entities.Company),
		users:     make(map[string]*entities.User),
		reviews:   make(map[string]*entities.Review),
		posts:     make(map[string]*entities.BlogPost),
	}
}

// Companies returns the company collection
func (s *Store) Companies() repositories.CompanyRepository { return (*companyRepo)(s) }

// Users returns the user collection
func (s *Store) Users() repositories.UserRepository { return (*userRepo)(s) }

// Reviews returns the review collection
func (s *Store) Reviews() repositories.ReviewRepository { return (*reviewRepo)(s) }

// Blog returns the blog post collection
func (s *Store) Blog() repositories.BlogRepository { return (*blogRepo)(s) }

// Contacts returns the contact message collection
func (s *Store) Contacts() repositories.ContactRepository { return (*contactRepo)(s) }

// ContactMessages returns a copy of every stored contact message
func (s *Store) ContactMessages() []entities.ContactMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.ContactMessage, len(s.messages))
	for i, m := range s.messages {
		out[i] = *m
	}
	return out
}

type companyRepo Store

func (r *companyRepo) Create(_ context.Context, company *entities.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[company.ID]; ok {
		return apperrors.NewConflictError("company already exists")
	}
	r.companies[company.ID] = copyCompany(company)
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entities.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Company not found")
	}
	return copyCompany(c), nil
}

func (r *companyRepo) Update(_ context.Context, id string, u repositories.CompanyUpdate) (*entities.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Company not found")
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.NameRu != nil {
		c.NameRu = *u.NameRu
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.DescriptionRu != nil {
		c.DescriptionRu = *u.DescriptionRu
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.Location != nil {
		c.Location = *u.Location
	}
	if u.Contacts != nil {
		c.Contacts = copyContacts(*u.Contacts)
	}
	if u.Image != nil {
		c.Image = *u.Image
	}
	if u.Images != nil {
		c.Images = append([]string{}, (*u.Images)...)
	}
	if u.IsNew != nil {
		c.IsNew = *u.IsNew
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
	c.UpdatedAt = r.now()
	return copyCompany(c), nil
}

func (r *companyRepo) SetRating(_ context.Context, id string, rating float64, reviewCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return apperrors.NewNotFoundError("Company not found")
	}
	c.Rating = rating
	c.ReviewCount = reviewCount
	return nil
}

func (r *companyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return apperrors.NewNotFoundError("Company not found")
	}
	delete(r.companies, id)
	for rid, review := range r.reviews {
		if review.CompanyID == id {
			delete(r.reviews, rid)
		}
	}
	return nil
}

func (r *companyRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies = make(map[string]*entities.Company)
	r.reviews = make(map[string]*entities.Review)
	return nil
}

func (r *companyRepo) List(_ context.Context, q repositories.CompanyQuery) ([]*entities.Company, error) {
	r.mu.RLock()
	matched := r.filter(q.Filter)
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return lessCompany(matched[i], matched[j], q.Sort)
	})

	return paginate(matched, q.Offset, q.Limit), nil
}

func (r *companyRepo) Count(_ context.Context, f repositories.CompanyFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filter(f)), nil
}

func (r *companyRepo) ListIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.companies))
	for id := range r.companies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// filter must be called with the lock held
func (r *companyRepo) filter(f repositories.CompanyFilter) []*entities.Company {
	term := strings.ToLower(f.Search)
	var out []*entities.Company
	for _, c := range r.companies {
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.IsNew != nil && c.IsNew != *f.IsNew {
			continue
		}
		if term != "" && !containsFold(term, c.Name, c.NameRu, c.Description, c.DescriptionRu) {
			continue
		}
		out = append(out, copyCompany(c))
	}
	return out
}

func containsFold(lowerTerm string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerTerm) {
			return true
		}
	}
	return false
}

func lessCompany(a, b *entities.Company, keys []repositories.SortKey) bool {
	for _, key := range keys {
		cmp := compareCompanyField(a, b, key.Field)
		if cmp == 0 {
			continue
		}
		if key.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func compareCompanyField(a, b *entities.Company, field string) int {
	switch field {
	case repositories.SortFieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case repositories.SortFieldReviewCount:
		return compareOrdered(a.ReviewCount, b.ReviewCount)
	case repositories.SortFieldRating:
		return compareOrdered(a.Rating, b.Rating)
	case repositories.SortFieldID:
		return strings.Compare(a.ID, b.ID)
	}
	return 0
}

func compareOrdered[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.NewConflictError("Email already registered")
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("User not found")
}

type reviewRepo Store

func (r *reviewRepo) Create(_ context.Context, review *entities.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[review.CompanyID]; !ok {
		return apperrors.NewNotFoundError("Company not found")
	}
	for _, existing := range r.reviews {
		if existing.CompanyID == review.CompanyID && existing.UserID == review.UserID {
			return apperrors.NewConflictError("You have already reviewed this company")
		}
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *reviewRepo) FindByCompanyAndUser(_ context.Context, companyID, userID string) (*entities.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, review := range r.reviews {
		if review.CompanyID == companyID && review.UserID == userID {
			cp := *review
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *reviewRepo) ListByCompany(_ context.Context, companyID string, offset, limit int) ([]*entities.Review, error) {
	r.mu.RLock()
	var matched []*entities.Review
	for _, review := range r.reviews {
		if review.CompanyID == companyID {
			cp := *review
			matched = append(matched, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if c := matched[i].CreatedAt.Compare(matched[j].CreatedAt); c != 0 {
			return c > 0
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, offset, limit), nil
}

func (r *reviewRepo) CountByCompany(_ context.Context, companyID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, review := range r.reviews {
		if review.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *reviewRepo) RatingsByCompany(_ context.Context, companyID string) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ratings []int
	for _, review := range r.reviews {
		if review.CompanyID == companyID {
			ratings = append(ratings, review.Rating)
		}
	}
	return ratings, nil
}

type blogRepo Store

func (r *blogRepo) Create(_ context.Context, post *entities.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *blogRepo) GetByID(_ context.Context, id string) (*entities.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Post not found")
	}
	cp := *p
	return &cp, nil
}

func (r *blogRepo) List(_ context.Context, offset, limit int) ([]*entities.BlogPost, error) {
	r.mu.RLock()
	posts := make([]*entities.BlogPost, 0, len(r.posts))
	for _, p := range r.posts {
		cp := *p
		posts = append(posts, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if c := posts[i].PublishedAt.Compare(posts[j].PublishedAt); c != 0 {
			return c > 0
		}
		return posts[i].ID > posts[j].ID
	})
	return paginate(posts, offset, limit), nil
}

func (r *blogRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts), nil
}

func (r *blogRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = make(map[string]*entities.BlogPost)
	return nil
}

type contactRepo Store

func (r *contactRepo) Create(_ context.Context, message *entities.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func copyCompany(c *entities.Company) *entities.Company {
	cp := *c
	cp.Images = append([]string{}, c.Images...)
	cp.Contacts = copyContacts(c.Contacts)
	if c.UserID != nil {
		owner := *c.UserID
		cp.UserID = &owner
	}
	return &cp
}

func copyContacts(c entities.Contacts) entities.Contacts {
	if c.Website != nil {
		website := *c.Website
		c.Website = &website
	}
	return c
}
