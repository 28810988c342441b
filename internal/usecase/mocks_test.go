package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// MockKeyValueStore is a mock implementation of domain.KeyValueStore
type MockKeyValueStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	ttls      map[string]time.Duration
	getError  error
	setError  error
	delError  error
	setCalled int
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrKeyNotFound
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delError != nil {
		return m.delError
	}
	delete(m.data, key)
	return nil
}

func (m *MockKeyValueStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockRecipeCatalog is a mock implementation of domain.RecipeCatalog
type MockRecipeCatalog struct {
	recipes   []domain.Recipe
	err       error
	typeCalls map[string]int
}

func NewMockRecipeCatalog(recipes ...domain.Recipe) *MockRecipeCatalog {
	return &MockRecipeCatalog{recipes: recipes, typeCalls: make(map[string]int)}
}

func (m *MockRecipeCatalog) GetRecipesByType(ctx context.Context, recipeType string) ([]domain.Recipe, error) {
	m.typeCalls[recipeType]++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Recipe
	for _, r := range m.recipes {
		if strings.EqualFold(r.Type, recipeType) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRecipeCatalog) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.recipes {
		if m.recipes[i].ID == id {
			r := m.recipes[i]
			return &r, nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

func (m *MockRecipeCatalog) All(ctx context.Context) ([]domain.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Recipe(nil), m.recipes...), nil
}

// MockUSDAClient is a mock implementation of domain.USDAClient
type MockUSDAClient struct {
	searchResult *domain.USDASearchResponse
	searchError  error
	foodResult   *domain.USDAFood
	foodError    error
	searchCalls  int
	lastQuery    string
}

func NewMockUSDAClient() *MockUSDAClient {
	return &MockUSDAClient{}
}

func (m *MockUSDAClient) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	m.searchCalls++
	m.lastQuery = query
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func (m *MockUSDAClient) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	if m.foodError != nil {
		return nil, m.foodError
	}
	return m.foodResult, nil
}

// MockPlanRepository is a mock implementation of domain.PlanRepository
type MockPlanRepository struct {
	plans map[string]domain.MealPlan
	err   error
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{plans: make(map[string]domain.MealPlan)}
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.MealPlan) error {
	if m.err != nil {
		return m.err
	}
	m.plans[plan.ID] = *plan
	return nil
}

func (m *MockPlanRepository) List(ctx context.Context, userID string) ([]domain.MealPlan, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.MealPlan
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	// map order is random; the service must impose its own order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockPlanRepository) Get(ctx context.Context, userID, id string) (*domain.MealPlan, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.plans[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrPlanNotFound
	}
	return &p, nil
}

func (m *MockPlanRepository) Update(ctx context.Context, userID, id string, update domain.PlanUpdate, updatedAt time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	p, ok := m.plans[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	p.UpdatedAt = updatedAt
	m.plans[id] = p
	return true, nil
}

func (m *MockPlanRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	p, ok := m.plans[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(m.plans, id)
	return true, nil
}

// fixedSource replays indices in order, wrapping around; each is reduced mod n
type fixedSource struct {
	picks []int
	next  int
	calls int
}

func (s *fixedSource) Intn(n int) int {
	s.calls++
	if len(s.picks) == 0 {
		return 0
	}
	v := s.picks[s.next%len(s.picks)]
	s.next++
	return v % n
}

var errBoom = errors.New("boom")

func recipe(id, recipeType string, cal, protein, carbs, fat float64) domain.Recipe {
	return domain.Recipe{
		ID:   id,
		Name: strings.ToUpper(id[:1]) + id[1:],
		Type: recipeType,
		Macros: domain.Macros{
			Calories: cal,
			Protein:  protein,
			Carbs:    carbs,
			Fat:      fat,
		},
	}
}

func ptr(r domain.Recipe) *domain.Recipe {
	return &r
}
