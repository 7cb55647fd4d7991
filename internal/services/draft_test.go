package services_test

import (
	"testing"

	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/repositories"
	"github.com/kenzyo3030/cafe/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestEditor_Defaults(t *testing.T) {
	editor := services.NewEditor()

	assert.False(t, editor.Editing())
	assert.Empty(t, editor.Preview())
	draft := editor.Draft()
	assert.Equal(t, models.CategoryFood, draft.Category)
	assert.Equal(t, models.StatusReady, draft.Status)
	assert.Empty(t, draft.Name)
}

func TestEditor_ValidateNewItem(t *testing.T) {
	editor := services.NewEditor()

	// Empty draft fails on name
	assert.ErrorIs(t, editor.Validate(), services.ErrDraftInvalid)

	// Valid fields but no image selected still fails for a new item
	editor.SetDraft(validDraft())
	assert.ErrorIs(t, editor.Validate(), services.ErrDraftInvalid)

	editor.AttachImage(services.ImageUpload{Filename: "photo.jpg"})
	assert.NoError(t, editor.Validate())
}

func TestEditor_ValidateEditKeepsRetainedImage(t *testing.T) {
	editor := services.NewEditor()
	editor.BeginEdit(models.MenuItem{
		ID:       "item-1",
		Name:     "Fried Rice",
		Category: models.CategoryFood,
		Price:    15000,
		Image:    "http://localhost:8080/uploads/1.jpg",
		Status:   models.StatusReady,
	})

	assert.True(t, editor.Editing())
	assert.Equal(t, "http://localhost:8080/uploads/1.jpg", editor.Preview())

	// No new image needed when editing: the stored URL is retained
	assert.NoError(t, editor.Validate())

	// Field edits keep the retained image URL
	draft := editor.Draft()
	draft.Name = "Special Fried Rice"
	draft.Image = ""
	editor.SetDraft(draft)
	assert.Equal(t, "http://localhost:8080/uploads/1.jpg", editor.Draft().Image)
}

func TestEditor_AttachImageUpdatesPreview(t *testing.T) {
	editor := services.NewEditor()
	editor.SetDraft(validDraft())
	editor.AttachImage(services.ImageUpload{Filename: "new-photo.png"})

	// Preview shows the staged file, the saved field is untouched
	assert.Equal(t, "new-photo.png", editor.Preview())
	assert.Empty(t, editor.Draft().Image)
}

func TestEditor_SubmitCreatesAndResets(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	catalog := services.NewCatalogService(repo, newFakeObjectStore())

	editor := services.NewEditor()
	editor.SetDraft(validDraft())
	editor.AttachImage(*upload("jpg"))

	item, err := editor.Submit(catalog)
	assert.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	// Editor is back to empty create-mode defaults
	assert.False(t, editor.Editing())
	assert.Empty(t, editor.Draft().Name)
	assert.Empty(t, editor.Preview())

	items, err := catalog.ListItems()
	assert.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestEditor_SubmitUpdates(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	catalog := services.NewCatalogService(repo, newFakeObjectStore())

	created, err := catalog.CreateItem(validDraft(), upload("jpg"))
	assert.NoError(t, err)

	editor := services.NewEditor()
	editor.BeginEdit(*created)
	draft := editor.Draft()
	draft.Price = 18000
	editor.SetDraft(draft)

	updated, err := editor.Submit(catalog)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(18000), updated.Price)
	assert.Equal(t, created.Image, updated.Image)
	assert.False(t, editor.Editing())
}

func TestEditor_SubmitInvalidDraftDoesNotReset(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	catalog := services.NewCatalogService(repo, newFakeObjectStore())

	editor := services.NewEditor()
	draft := validDraft()
	draft.Name = ""
	editor.SetDraft(draft)
	editor.AttachImage(*upload("jpg"))

	_, err := editor.Submit(catalog)
	assert.ErrorIs(t, err, services.ErrDraftInvalid)

	// The staged draft survives so the admin can fix and retry
	assert.Equal(t, int64(15000), editor.Draft().Price)
	assert.Equal(t, "photo.jpg", editor.Preview())
}
