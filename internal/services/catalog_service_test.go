package services_test

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/objstore"
	"github.com/kenzyo3030/cafe/internal/repositories"
	"github.com/kenzyo3030/cafe/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeObjectStore is an in-memory ObjectStore that tracks which
// objects are live, so tests can assert no orphans remain.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string]string
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]string)}
}

func (s *fakeObjectStore) Put(name string, r io.Reader) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = string(data)
	return "http://localhost:8080/uploads/" + name, nil
}

func (s *fakeObjectStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name) // absent object is not an error
	return nil
}

func (s *fakeObjectStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *fakeObjectStore) has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok
}

// MockMenuItemRepo is a mock implementation of repositories.MenuItemRepository
type MockMenuItemRepo struct {
	mock.Mock
}

func (m *MockMenuItemRepo) GetAll() ([]models.MenuItem, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepo) GetByID(id string) (*models.MenuItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepo) Create(item *models.MenuItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockMenuItemRepo) Update(item *models.MenuItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockMenuItemRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func validDraft() services.Draft {
	return services.Draft{
		Name:     "Fried Rice",
		Category: models.CategoryFood,
		Price:    15000,
		Status:   models.StatusReady,
	}
}

func upload(ext string) *services.ImageUpload {
	return &services.ImageUpload{
		Filename: "photo." + ext,
		Reader:   strings.NewReader("image-bytes-" + ext),
	}
}

func TestCatalogService_CreateItem(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	images := newFakeObjectStore()
	catalog := services.NewCatalogService(repo, images)

	item, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Contains(t, item.Image, "/uploads/")
	assert.True(t, strings.HasSuffix(item.Image, ".jpg"))
	assert.Equal(t, 1, images.count())

	stored, err := catalog.GetItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, item.Image, stored.Image)
}

func TestCatalogService_CreateItemValidation(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	images := newFakeObjectStore()
	catalog := services.NewCatalogService(repo, images)

	// Missing name
	draft := validDraft()
	draft.Name = ""
	_, err := catalog.CreateItem(draft, upload("jpg"))
	assert.ErrorIs(t, err, services.ErrDraftInvalid)

	// Negative price
	draft = validDraft()
	draft.Price = -1
	_, err = catalog.CreateItem(draft, upload("jpg"))
	assert.ErrorIs(t, err, services.ErrDraftInvalid)

	// Missing image for a new item
	_, err = catalog.CreateItem(validDraft(), nil)
	assert.ErrorIs(t, err, services.ErrDraftInvalid)

	// Unknown category
	draft = validDraft()
	draft.Category = "Dessert"
	_, err = catalog.CreateItem(draft, upload("jpg"))
	assert.ErrorIs(t, err, services.ErrDraftInvalid)

	// Nothing was uploaded or stored on any failed validation
	assert.Equal(t, 0, images.count())
	items, _ := catalog.ListItems()
	assert.Empty(t, items)
}

func TestCatalogService_UpdateItemReplacesImage(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	images := newFakeObjectStore()
	catalog := services.NewCatalogService(repo, images)

	item, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.NoError(t, err)
	oldName := objstore.NameFromURL(item.Image)
	assert.True(t, images.has(oldName))

	draft := validDraft()
	draft.Name = "Special Fried Rice"
	updated, err := catalog.UpdateItem(item.ID, draft, upload("png"))
	assert.NoError(t, err)
	assert.Equal(t, "Special Fried Rice", updated.Name)
	assert.Equal(t, item.CreatedAt, updated.CreatedAt)

	// Exactly one live image, and it is the one the record points at
	newName := objstore.NameFromURL(updated.Image)
	assert.Equal(t, 1, images.count())
	assert.True(t, images.has(newName))
	assert.False(t, images.has(oldName))
}

func TestCatalogService_UpdateItemKeepsImage(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	images := newFakeObjectStore()
	catalog := services.NewCatalogService(repo, images)

	item, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.NoError(t, err)

	draft := validDraft()
	draft.Status = models.StatusSoldOut
	updated, err := catalog.UpdateItem(item.ID, draft, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusSoldOut, updated.Status)
	assert.Equal(t, item.Image, updated.Image)
	assert.Equal(t, 1, images.count())
}

func TestCatalogService_UpdateItemNotFound(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	catalog := services.NewCatalogService(repo, newFakeObjectStore())

	_, err := catalog.UpdateItem("missing", validDraft(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCatalogService_DeleteItemRemovesImage(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	images := newFakeObjectStore()
	catalog := services.NewCatalogService(repo, images)

	item, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.NoError(t, err)

	assert.NoError(t, catalog.DeleteItem(item.ID))
	assert.Equal(t, 0, images.count())
	_, err = catalog.GetItem(item.ID)
	assert.Error(t, err)
}

func TestCatalogService_DeleteItemToleratesMissingImage(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	images := newFakeObjectStore()
	catalog := services.NewCatalogService(repo, images)

	item, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.NoError(t, err)

	// The object disappears out of band; delete must still succeed
	assert.NoError(t, images.Remove(objstore.NameFromURL(item.Image)))
	assert.NoError(t, catalog.DeleteItem(item.ID))
}

func TestCatalogService_UploadFailureLeavesStateUnchanged(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	images := newFakeObjectStore()
	images.putErr = fmt.Errorf("bucket unavailable")
	catalog := services.NewCatalogService(repo, images)

	_, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrDraftInvalid)

	items, _ := catalog.ListItems()
	assert.Empty(t, items)
}

func TestCatalogService_InsertFailureSurfaced(t *testing.T) {
	mockRepo := new(MockMenuItemRepo)
	images := newFakeObjectStore()
	catalog := services.NewCatalogService(mockRepo, images)

	mockRepo.On("Create", mock.AnythingOfType("*models.MenuItem")).
		Return(fmt.Errorf("database error")).Once()

	_, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_ListItemsNewestFirst(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	catalog := services.NewCatalogService(repo, newFakeObjectStore())

	first, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.NoError(t, err)
	second := validDraft()
	second.Name = "Iced Tea"
	second.Category = models.CategoryBeverage
	latest, err := catalog.CreateItem(second, upload("png"))
	assert.NoError(t, err)

	// Force distinct creation times regardless of clock resolution
	item, _ := repo.GetByID(latest.ID)
	item.CreatedAt = first.CreatedAt.Add(1)
	assert.NoError(t, repo.Update(item))

	items, err := catalog.ListItems()
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Iced Tea", items[0].Name)
	assert.Equal(t, "Fried Rice", items[1].Name)
}
