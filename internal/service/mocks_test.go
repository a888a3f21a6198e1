package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

type mockVetRepository struct {
	mock.Mock
}

func (m *mockVetRepository) Create(ctx context.Context, vet *domain.Vet) error {
	args := m.Called(ctx, vet)
	return args.Error(0)
}

func (m *mockVetRepository) GetByID(ctx context.Context, id string) (*domain.Vet, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVetRepository) GetByEmail(ctx context.Context, email string) (*domain.Vet, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVetRepository) List(ctx context.Context) ([]domain.Vet, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.Vet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVetRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*domain.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteByVet(ctx context.Context, vetID string) (int64, error) {
	args := m.Called(ctx, vetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// memorySessions is a stateful session store for lifecycle tests.
type memorySessions struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]domain.RefreshToken
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: map[string]domain.RefreshToken{}}
}

func (m *memorySessions) Create(_ context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.Token]; ok {
		return apperrors.NewDuplicateKey("token")
	}
	m.seq++
	token.ID = "rt-" + strconv.Itoa(m.seq)
	token.CreatedAt = time.Now()
	m.tokens[token.Token] = *token
	return nil
}

func (m *memorySessions) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[token]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	return &rt, nil
}

func (m *memorySessions) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, rt := range m.tokens {
		if rt.ID == id {
			delete(m.tokens, k)
			return nil
		}
	}
	return apperrors.ErrRecordNotFound
}

func (m *memorySessions) DeleteByToken(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return 0, nil
	}
	delete(m.tokens, token)
	return 1, nil
}

func (m *memorySessions) DeleteByVet(_ context.Context, vetID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, rt := range m.tokens {
		if rt.VetID == vetID {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

func (m *memorySessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, rt := range m.tokens {
		if rt.Expired(now) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

func (m *memorySessions) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

type mockClientRepository struct {
	mock.Mock
}

func (m *mockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Client], error) {
	args := m.Called(ctx, opts)
	if v := args.Get(0); v != nil {
		return v.(*domain.Page[domain.Client]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepository) Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	args := m.Called(ctx, id, patch)
	if v := args.Get(0); v != nil {
		return v.(*domain.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPetRepository struct {
	mock.Mock
}

func (m *mockPetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	args := m.Called(ctx, pet)
	return args.Error(0)
}

func (m *mockPetRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Pet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPetRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Pet], error) {
	args := m.Called(ctx, opts)
	if v := args.Get(0); v != nil {
		return v.(*domain.Page[domain.Pet]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPetRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error) {
	args := m.Called(ctx, ownerID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Pet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPetRepository) Update(ctx context.Context, id string, patch domain.PetPatch) (*domain.Pet, error) {
	args := m.Called(ctx, id, patch)
	if v := args.Get(0); v != nil {
		return v.(*domain.Pet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPetRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAnamneseRepository struct {
	mock.Mock
}

func (m *mockAnamneseRepository) Create(ctx context.Context, anamnese *domain.Anamnese) error {
	args := m.Called(ctx, anamnese)
	return args.Error(0)
}

func (m *mockAnamneseRepository) GetByID(ctx context.Context, id string) (*domain.Anamnese, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Anamnese), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnamneseRepository) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Anamnese], error) {
	args := m.Called(ctx, opts)
	if v := args.Get(0); v != nil {
		return v.(*domain.Page[domain.Anamnese]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnamneseRepository) ListByPet(ctx context.Context, petID string) ([]domain.Anamnese, error) {
	args := m.Called(ctx, petID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Anamnese), args.Error(1)
	}
	return nil, args.Error(1)
}
