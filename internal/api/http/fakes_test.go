package http

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

type memVets struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Vet
}

func newMemVets() *memVets {
	return &memVets{byID: map[string]*domain.Vet{}}
}

func (m *memVets) Create(_ context.Context, vet *domain.Vet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.byID {
		if v.Email == vet.Email {
			return apperrors.NewDuplicateKey("email")
		}
	}
	m.seq++
	vet.ID = "vet-" + strconv.Itoa(m.seq)
	vet.CreatedAt = time.Now().UTC()
	vet.UpdatedAt = vet.CreatedAt
	cp := *vet
	m.byID[vet.ID] = &cp
	return nil
}

func (m *memVets) GetByID(_ context.Context, id string) (*domain.Vet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.byID[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, apperrors.ErrRecordNotFound
}

func (m *memVets) GetByEmail(_ context.Context, email string) (*domain.Vet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.byID {
		if v.Email == email {
			cp := *v
			return &cp, nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

func (m *memVets) List(_ context.Context) ([]domain.Vet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Vet, 0, len(m.byID))
	for _, v := range m.byID {
		out = append(out, domain.Vet{ID: v.ID, Name: v.Name})
	}
	return out, nil
}

func (m *memVets) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok {
		return apperrors.ErrRecordNotFound
	}
	v.PasswordHash = hash
	return nil
}

type memSessions struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]domain.RefreshToken
}

func newMemSessions() *memSessions {
	return &memSessions{tokens: map[string]domain.RefreshToken{}}
}

func (m *memSessions) Create(_ context.Context, t *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = "rt-" + strconv.Itoa(m.seq)
	m.tokens[t.Token] = *t
	return nil
}

func (m *memSessions) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[token]; ok {
		return &t, nil
	}
	return nil, apperrors.ErrRecordNotFound
}

func (m *memSessions) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.tokens {
		if t.ID == id {
			delete(m.tokens, k)
		}
	}
	return nil
}

func (m *memSessions) DeleteByToken(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return 0, nil
	}
	delete(m.tokens, token)
	return 1, nil
}

func (m *memSessions) DeleteByVet(_ context.Context, vetID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, t := range m.tokens {
		if t.VetID == vetID {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, t := range m.tokens {
		if t.Expired(now) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

// memRecords backs clients, pets and anamneses and counts every call.
type memRecords struct {
	mu        sync.Mutex
	calls     int
	clients   map[string]domain.Client
	pets      map[string]domain.Pet
	anamneses map[string]domain.Anamnese
	seq       int
}

func newMemRecords() *memRecords {
	return &memRecords{
		clients:   map[string]domain.Client{},
		pets:      map[string]domain.Pet{},
		anamneses: map[string]domain.Anamnese{},
	}
}

func (m *memRecords) next(prefix string) string {
	m.seq++
	return prefix + strconv.Itoa(m.seq)
}

func (m *memRecords) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type memClients struct{ *memRecords }

func (m memClients) Create(_ context.Context, c *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	c.ID = m.next("c")
	m.clients[c.ID] = *c
	return nil
}

func (m memClients) GetByID(_ context.Context, id string) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if c, ok := m.clients[id]; ok {
		return &c, nil
	}
	return nil, apperrors.ErrRecordNotFound
}

func (m memClients) List(_ context.Context, opts domain.ListOptions) (*domain.Page[domain.Client], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if opts.Offset() < 0 {
		// postgres: OFFSET must not be negative
		return nil, errors.New("OFFSET must not be negative")
	}
	page := &domain.Page[domain.Client]{Total: int64(len(m.clients))}
	skipped := 0
	for _, c := range m.clients {
		if skipped < opts.Offset() {
			skipped++
			continue
		}
		if len(page.Items) == opts.Limit {
			break
		}
		page.Items = append(page.Items, c)
	}
	return page, nil
}

func (m memClients) Update(_ context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	c, ok := m.clients[id]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	m.clients[id] = c
	return &c, nil
}

func (m memClients) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.clients[id]; !ok {
		return apperrors.ErrRecordNotFound
	}
	delete(m.clients, id)
	for pid, p := range m.pets {
		if p.OwnerID == id {
			delete(m.pets, pid)
		}
	}
	return nil
}

type memPets struct{ *memRecords }

func (m memPets) Create(_ context.Context, p *domain.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p.ID = m.next("p")
	m.pets[p.ID] = *p
	return nil
}

func (m memPets) GetByID(_ context.Context, id string) (*domain.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if p, ok := m.pets[id]; ok {
		return &p, nil
	}
	return nil, apperrors.ErrRecordNotFound
}

func (m memPets) List(_ context.Context, _ domain.ListOptions) (*domain.Page[domain.Pet], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	page := &domain.Page[domain.Pet]{Total: int64(len(m.pets))}
	for _, p := range m.pets {
		page.Items = append(page.Items, p)
	}
	return page, nil
}

func (m memPets) ListByOwner(_ context.Context, ownerID string) ([]domain.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var out []domain.Pet
	for _, p := range m.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memPets) Update(_ context.Context, id string, _ domain.PetPatch) (*domain.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.pets[id]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	return &p, nil
}

func (m memPets) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.pets[id]; !ok {
		return apperrors.ErrRecordNotFound
	}
	delete(m.pets, id)
	return nil
}

type memAnamneses struct{ *memRecords }

func (m memAnamneses) Create(_ context.Context, a *domain.Anamnese) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	a.ID = m.next("a")
	m.anamneses[a.ID] = *a
	return nil
}

func (m memAnamneses) GetByID(_ context.Context, id string) (*domain.Anamnese, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if a, ok := m.anamneses[id]; ok {
		return &a, nil
	}
	return nil, apperrors.ErrRecordNotFound
}

func (m memAnamneses) List(_ context.Context, _ domain.ListOptions) (*domain.Page[domain.Anamnese], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	page := &domain.Page[domain.Anamnese]{Total: int64(len(m.anamneses))}
	for _, a := range m.anamneses {
		page.Items = append(page.Items, a)
	}
	return page, nil
}

func (m memAnamneses) ListByPet(_ context.Context, petID string) ([]domain.Anamnese, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var out []domain.Anamnese
	for _, a := range m.anamneses {
		if a.PetID == petID {
			out = append(out, a)
		}
	}
	return out, nil
}
