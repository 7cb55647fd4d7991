package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kenzyo3030/cafe/internal/models"

	"github.com/google/uuid"
)

// MockMenuItemRepository is an in-memory implementation of
// MenuItemRepository, used in tests and DSN-less development runs.
type MockMenuItemRepository struct {
	items map[string]models.MenuItem
	mu    sync.RWMutex
}

// NewMockMenuItemRepository creates a new instance of MockMenuItemRepository.
func NewMockMenuItemRepository() *MockMenuItemRepository {
	return &MockMenuItemRepository{
		items: make(map[string]models.MenuItem),
	}
}

// GetAll returns all menu items, newest first.
func (r *MockMenuItemRepository) GetAll() ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		itemList = append(itemList, item)
	}
	sort.Slice(itemList, func(i, j int) bool {
		return itemList[i].CreatedAt.After(itemList[j].CreatedAt)
	})
	return itemList, nil
}

// GetByID returns a menu item by its ID.
func (r *MockMenuItemRepository) GetByID(id string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item with ID %s not found", id)
	}
	return &item, nil
}

// Create adds a new menu item, assigning ID and CreatedAt when unset.
func (r *MockMenuItemRepository) Create(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.items[item.ID] = *item
	return nil
}

// Update modifies an existing menu item.
func (r *MockMenuItemRepository) Update(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("menu item with ID %s not found for update", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// Delete removes a menu item by its ID.
func (r *MockMenuItemRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]
	if !ok {
		return fmt.Errorf("menu item with ID %s not found for deletion", id)
	}
	delete(r.items, id)
	return nil
}
