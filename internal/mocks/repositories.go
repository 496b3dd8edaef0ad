package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/repository"
)

// Verify interface compliance
var (
	_ repository.DishRepository = (*MockDishRepository)(nil)
	_ repository.UserRepository = (*MockUserRepository)(nil)
)

// MockDishRepository is an in-memory DishRepository. It stores copies, so
// a caller mutating a dish it read changes nothing until Save.
type MockDishRepository struct {
	mu     sync.Mutex
	Dishes map[string]*models.Dish
	order  []string

	// Errors injected into the matching calls when set
	ListError   error
	GetError    error
	CreateError error
	SaveError   error
	DeleteError error

	// GetFunc overrides GetByID when set
	GetFunc func(ctx context.Context, id string) (*models.Dish, error)

	GetCalls  int
	SaveCalls int
}

func NewMockDishRepository() *MockDishRepository {
	return &MockDishRepository{
		Dishes: make(map[string]*models.Dish),
	}
}

func (m *MockDishRepository) List(ctx context.Context) ([]*models.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	dishes := make([]*models.Dish, 0, len(m.order))
	for _, id := range m.order {
		dishes = append(dishes, m.Dishes[id].Clone())
	}
	return dishes, nil
}

func (m *MockDishRepository) GetByID(ctx context.Context, id string) (*models.Dish, error) {
	m.mu.Lock()
	m.GetCalls++
	getFunc := m.GetFunc
	m.mu.Unlock()
	if getFunc != nil {
		return getFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Dishes[id].Clone(), nil
}

func (m *MockDishRepository) Create(ctx context.Context, dish *models.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if m.nameTaken(dish) {
		return repository.ErrDuplicate
	}
	if dish.Comments == nil {
		dish.Comments = models.Comments{}
	}
	m.Dishes[dish.ID] = dish.Clone()
	m.order = append(m.order, dish.ID)
	return nil
}

func (m *MockDishRepository) Save(ctx context.Context, dish *models.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	if _, exists := m.Dishes[dish.ID]; !exists {
		return repository.ErrNotFound
	}
	if m.nameTaken(dish) {
		return repository.ErrDuplicate
	}
	m.Dishes[dish.ID] = dish.Clone()
	return nil
}

func (m *MockDishRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, exists := m.Dishes[id]; !exists {
		return repository.ErrNotFound
	}
	delete(m.Dishes, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockDishRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return 0, m.DeleteError
	}
	n := int64(len(m.Dishes))
	m.Dishes = make(map[string]*models.Dish)
	m.order = nil
	return n, nil
}

func (m *MockDishRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Dishes), nil
}

// Stored returns the stored copy of a dish without counting as a call
func (m *MockDishRepository) Stored(id string) *models.Dish {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dishes[id].Clone()
}

func (m *MockDishRepository) nameTaken(dish *models.Dish) bool {
	for id, existing := range m.Dishes {
		if id != dish.ID && existing.Name == dish.Name {
			return true
		}
	}
	return false
}

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*models.User
	CreateError error
	LookupError error

	GetByIDsCalls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Users {
		if existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	return copyUser(m.Users[id]), nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	for _, u := range m.Users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetByIDsCalls++
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.Users[id]; ok {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	users := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
