package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/prattikkk/Incubyte/internal/models"
)

var (
	errSweetNotFound     = errors.New("sweet not found")
	errInsufficientStock = errors.New("insufficient stock")
	errUserExists        = errors.New("username already taken")
)

type user struct {
	Username     string
	Email        string
	PasswordHash []byte
	Roles        []string
}

// memoryStore backs the dev stub. Everything lives in process memory and is
// rebuilt from the seed on every start; real persistence stays a non-goal.
type memoryStore struct {
	mu     sync.Mutex
	users  map[string]user
	sweets map[int64]models.Sweet
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:  make(map[string]user),
		sweets: make(map[int64]models.Sweet),
		nextID: 1,
	}
}

// seed loads the demo accounts and shelf used for local development.
func (m *memoryStore) seed() error {
	if err := m.createUser("admin", "admin@sweetshop.local", "admin123", []string{models.RoleAdmin, models.RoleUser}); err != nil {
		return err
	}
	if err := m.createUser("alice", "alice@sweetshop.local", "secret123", []string{models.RoleUser}); err != nil {
		return err
	}

	for _, s := range []models.Sweet{
		{Name: "Ladoo", Category: "Indian", Price: 2.5, Quantity: 10},
		{Name: "Kaju Katli", Category: "Indian", Price: 5, Quantity: 8},
		{Name: "Gulab Jamun", Category: "Indian", Price: 3.25, Quantity: 12},
		{Name: "Chocolate Fudge", Category: "Western", Price: 4, Quantity: 6},
		{Name: "Jalebi", Category: "Indian", Price: 2, Quantity: 0},
	} {
		m.createSweet(s)
	}
	return nil
}

func (m *memoryStore) createUser(username, email, password string, roles []string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(username)
	if _, exists := m.users[key]; exists {
		return errUserExists
	}
	m.users[key] = user{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
	}
	return nil
}

func (m *memoryStore) authenticate(username, password string) (user, bool) {
	m.mu.Lock()
	u, exists := m.users[strings.ToLower(username)]
	m.mu.Unlock()

	if !exists {
		return user{}, false
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return user{}, false
	}
	return u, true
}

func (m *memoryStore) listSweets(name, category string, minPrice, maxPrice *float64) []models.Sweet {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Sweet, 0, len(m.sweets))
	for _, s := range m.sweets {
		if name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(name)) {
			continue
		}
		if category != "" && !strings.EqualFold(s.Category, category) {
			continue
		}
		if minPrice != nil && s.Price < *minPrice {
			continue
		}
		if maxPrice != nil && s.Price > *maxPrice {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryStore) createSweet(s models.Sweet) models.Sweet {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = m.nextID
	m.nextID++
	m.sweets[s.ID] = s
	return s
}

func (m *memoryStore) updateSweet(id int64, s models.Sweet) (models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sweets[id]; !exists {
		return models.Sweet{}, errSweetNotFound
	}
	s.ID = id
	m.sweets[id] = s
	return s, nil
}

func (m *memoryStore) deleteSweet(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sweets[id]; !exists {
		return errSweetNotFound
	}
	delete(m.sweets, id)
	return nil
}

func (m *memoryStore) restock(id int64, quantity int) (models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sweets[id]
	if !exists {
		return models.Sweet{}, errSweetNotFound
	}
	s.Quantity += quantity
	m.sweets[id] = s
	return s, nil
}

func (m *memoryStore) purchase(id int64, quantity int) (models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sweets[id]
	if !exists {
		return models.Sweet{}, errSweetNotFound
	}
	if s.Quantity < quantity {
		return models.Sweet{}, errInsufficientStock
	}
	s.Quantity -= quantity
	m.sweets[id] = s
	return s, nil
}
