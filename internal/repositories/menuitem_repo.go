package repositories

import (
	"github.com/kenzyo3030/cafe/internal/models"
)

// MenuItemRepository defines the interface for catalog data access.
// GetAll returns items newest first (created_at descending), the
// order the storefront lists them in.
type MenuItemRepository interface {
	GetAll() ([]models.MenuItem, error)
	GetByID(id string) (*models.MenuItem, error)
	Create(item *models.MenuItem) error
	Update(item *models.MenuItem) error
	Delete(id string) error
}
