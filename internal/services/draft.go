package services

import (
	"fmt"

	"github.com/kenzyo3030/cafe/internal/models"

	"github.com/go-playground/validator/v10"
)

// Draft is a working copy of a menu item's editable fields. Image
// holds the retained URL when editing; a newly chosen image travels
// separately as an ImageUpload.
type Draft struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Category    string `json:"category" validate:"required,oneof=Food Beverage"`
	Price       int64  `json:"price" validate:"gte=0"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Image       string `json:"image"`
	Status      string `json:"status" validate:"required,oneof=ready sold-out"`
}

var draftValidate = validator.New()

// check validates the draft fields, wrapping failures in ErrDraftInvalid.
func (d Draft) check() error {
	if err := draftValidate.Struct(d); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: field '%s' failed on the '%s' tag", ErrDraftInvalid, e.Field(), e.Tag())
		}
		return fmt.Errorf("%w: %v", ErrDraftInvalid, err)
	}
	return nil
}

func (d Draft) toItem() models.MenuItem {
	return models.MenuItem{
		Name:        d.Name,
		Category:    d.Category,
		Price:       d.Price,
		Description: d.Description,
		Image:       d.Image,
		Status:      d.Status,
	}
}

// Editor stages a draft menu item for the admin panel: create or edit
// mode, the working field copy, and an optional newly chosen image
// kept in memory until submit.
type Editor struct {
	draft    Draft
	editing  string // ID of the item being edited, "" when creating
	newImage *ImageUpload
	preview  string
}

// NewEditor returns an editor reset to empty create-mode defaults.
func NewEditor() *Editor {
	e := &Editor{}
	e.Reset()
	return e
}

// Reset returns the editor to its empty defaults and create mode.
func (e *Editor) Reset() {
	e.draft = Draft{
		Category: models.CategoryFood,
		Status:   models.StatusReady,
	}
	e.editing = ""
	e.newImage = nil
	e.preview = ""
}

// BeginEdit loads an existing item's fields into the draft and
// switches the editor to edit mode.
func (e *Editor) BeginEdit(item models.MenuItem) {
	e.draft = Draft{
		Name:        item.Name,
		Category:    item.Category,
		Price:       item.Price,
		Description: item.Description,
		Image:       item.Image,
		Status:      item.Status,
	}
	e.editing = item.ID
	e.newImage = nil
	e.preview = item.Image
}

// SetDraft replaces the editable fields, keeping mode and any staged
// image. The retained image URL survives unless the caller set one.
func (e *Editor) SetDraft(d Draft) {
	if d.Image == "" {
		d.Image = e.draft.Image
	}
	e.draft = d
}

// AttachImage stages a newly chosen image. The preview tracks the
// staged file without touching the saved image field.
func (e *Editor) AttachImage(upload ImageUpload) {
	e.newImage = &upload
	e.preview = upload.Filename
}

// Draft returns the current working copy.
func (e *Editor) Draft() Draft {
	return e.draft
}

// Editing reports whether the editor targets an existing item.
func (e *Editor) Editing() bool {
	return e.editing != ""
}

// Preview returns the staged image name, or the retained URL when
// editing without a replacement.
func (e *Editor) Preview() string {
	return e.preview
}

// Validate checks that the draft can be submitted: name and price are
// required, and a new item needs an image source.
func (e *Editor) Validate() error {
	if err := e.draft.check(); err != nil {
		return err
	}
	if !e.Editing() && e.newImage == nil {
		return fmt.Errorf("%w: an image is required for a new item", ErrDraftInvalid)
	}
	return nil
}

// Submit hands the draft to the catalog, creating or updating based
// on mode, then resets the editor. The caller refetches the catalog
// list afterwards.
func (e *Editor) Submit(catalog *CatalogService) (*models.MenuItem, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	var item *models.MenuItem
	var err error
	if e.Editing() {
		item, err = catalog.UpdateItem(e.editing, e.draft, e.newImage)
	} else {
		item, err = catalog.CreateItem(e.draft, e.newImage)
	}
	if err != nil {
		return nil, err
	}
	e.Reset()
	return item, nil
}
