package repositories

import (
	"github.com/kenzyo3030/cafe/internal/models"
)

// AdminRepository defines the interface for admin account data access.
type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByEmail(email string) (*models.Admin, error)
	GetByID(id string) (*models.Admin, error)
}
