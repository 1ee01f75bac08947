package devserver

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jrsteele09/go-app-core/internal/errors"
	"github.com/jrsteele09/go-app-core/resources"
	"github.com/jrsteele09/go-app-core/users"
)

// userRecord is a stored account: the public profile plus private fields
type userRecord struct {
	profile      users.UserProfile
	passwordHash string
}

type userRepo struct {
	mu          sync.RWMutex
	byID        map[string]*userRecord
	byEmail     map[string]string // email -> id
	resetTokens map[string]string // reset token -> id
}

func newUserRepo() *userRepo {
	return &userRepo{
		byID:        make(map[string]*userRecord),
		byEmail:     make(map[string]string),
		resetTokens: make(map[string]string),
	}
}

func (r *userRepo) create(email, name, passwordHash string) *userRecord {
	now := NowTimeFunc()
	record := &userRecord{
		profile: users.UserProfile{
			User: users.User{
				ID:        uuid.NewString(),
				Email:     strings.ToLower(email),
				Name:      name,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		passwordHash: passwordHash,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[record.profile.ID] = record
	r.byEmail[record.profile.Email] = record.profile.ID
	return record
}

func (r *userRepo) get(id string) (*userRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return record, nil
}

func (r *userRepo) getByEmail(email string) (*userRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *userRepo) emailTaken(email string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[strings.ToLower(email)]
	return ok
}

// update applies fn to the record under the write lock and bumps UpdatedAt
func (r *userRepo) update(id string, fn func(*userRecord)) (*userRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byID[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	fn(record)
	record.profile.UpdatedAt = NowTimeFunc()
	return record, nil
}

func (r *userRepo) delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byID[id]
	if !ok {
		return errors.ErrUserNotFound
	}
	delete(r.byEmail, record.profile.Email)
	delete(r.byID, id)
	return nil
}

func (r *userRepo) createResetToken(id string) string {
	token := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetTokens[token] = id
	return token
}

func (r *userRepo) redeemResetToken(token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.resetTokens[token]
	if !ok {
		return "", errors.ErrInvalidToken
	}
	delete(r.resetTokens, token)
	return id, nil
}

type resourceRepo struct {
	mu    sync.RWMutex
	items map[string]resources.Resource
}

func newResourceRepo() *resourceRepo {
	return &resourceRepo{items: make(map[string]resources.Resource)}
}

func (r *resourceRepo) create(name string, data map[string]any) resources.Resource {
	now := NowTimeFunc()
	resource := resources.Resource{
		ID:        uuid.NewString(),
		Name:      name,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[resource.ID] = resource
	return resource
}

func (r *resourceRepo) get(id string) (resources.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resource, ok := r.items[id]
	if !ok {
		return resources.Resource{}, errors.ErrNotFound
	}
	return resource, nil
}

func (r *resourceRepo) update(id, name string, data map[string]any) (resources.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource, ok := r.items[id]
	if !ok {
		return resources.Resource{}, errors.ErrNotFound
	}
	resource.Name = name
	resource.Data = data
	resource.UpdatedAt = NowTimeFunc()
	r.items[id] = resource
	return resource, nil
}

func (r *resourceRepo) delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// list returns one page ordered by creation time (newest last) plus the
// total count
func (r *resourceRepo) list(page, pageSize int) ([]resources.Resource, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	r.mu.RLock()
	all := make([]resources.Resource, 0, len(r.items))
	for _, resource := range r.items {
		all = append(all, resource)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	start := (page - 1) * pageSize
	if start >= total {
		return []resources.Resource{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total
}
