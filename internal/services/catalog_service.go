package services

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/objstore"
	"github.com/kenzyo3030/cafe/internal/repositories"
)

// ErrDraftInvalid marks validation failures of a staged menu item, as
// opposed to remote store failures. Handlers map it to a 400.
var ErrDraftInvalid = errors.New("invalid menu item draft")

// ImageUpload carries newly chosen image bytes plus the original
// filename, whose extension feeds the generated object name.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// CatalogService owns all catalog writes. Everything else in the
// system holds read-only copies of menu items; after a mutation,
// callers refetch the full list instead of patching their own copy.
type CatalogService struct {
	repo   repositories.MenuItemRepository
	images objstore.ObjectStore
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.MenuItemRepository, images objstore.ObjectStore) *CatalogService {
	return &CatalogService{
		repo:   repo,
		images: images,
	}
}

// ListItems retrieves all menu items, newest first.
func (s *CatalogService) ListItems() ([]models.MenuItem, error) {
	return s.repo.GetAll()
}

// GetItem retrieves a single menu item by its ID.
func (s *CatalogService) GetItem(id string) (*models.MenuItem, error) {
	return s.repo.GetByID(id)
}

// CreateItem uploads the image, inserts the record, and returns the
// stored item including its assigned ID. A new item requires an image
// upload. If the insert fails after the upload succeeded the object
// may be orphaned; that gap is accepted and logged, never retried.
func (s *CatalogService) CreateItem(draft Draft, image *ImageUpload) (*models.MenuItem, error) {
	if err := draft.check(); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, fmt.Errorf("%w: an image is required for a new item", ErrDraftInvalid)
	}

	name := objstore.GenerateName(image.Filename)
	url, err := s.images.Put(name, image.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	item := draft.toItem()
	item.Image = url
	if err := s.repo.Create(&item); err != nil {
		log.Printf("Menu item insert failed after image upload, object %s may be orphaned: %v", name, err)
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies the draft to an existing record. When a new
// image replaces the old one, the old object is removed first so the
// record ends up referencing exactly one live image.
func (s *CatalogService) UpdateItem(id string, draft Draft, image *ImageUpload) (*models.MenuItem, error) {
	if err := draft.check(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	imageURL := draft.Image
	if imageURL == "" {
		imageURL = existing.Image
	}
	if image != nil {
		if old := objstore.NameFromURL(existing.Image); old != "" {
			if err := s.images.Remove(old); err != nil {
				return nil, fmt.Errorf("failed to remove replaced image: %w", err)
			}
		}
		name := objstore.GenerateName(image.Filename)
		imageURL, err = s.images.Put(name, image.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
	}
	if imageURL == "" {
		return nil, fmt.Errorf("%w: an image is required", ErrDraftInvalid)
	}

	item := draft.toItem()
	item.ID = existing.ID
	item.Image = imageURL
	item.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes the record's stored image, then the record. An
// image object that is already gone does not block the delete.
func (s *CatalogService) DeleteItem(id string) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if name := objstore.NameFromURL(item.Image); name != "" {
		if err := s.images.Remove(name); err != nil {
			return fmt.Errorf("failed to remove image for item %s: %w", id, err)
		}
	}
	return s.repo.Delete(id)
}
