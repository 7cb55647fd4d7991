package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for the catalog: the public menu
// listing and the admin CRUD surface.
type MenuHandler struct {
	catalog *services.CatalogService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(catalog *services.CatalogService) *MenuHandler {
	return &MenuHandler{
		catalog: catalog,
	}
}

// RegisterPublicRoutes registers the customer-facing menu routes.
func (h *MenuHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/menu", h.HandleListMenu)
}

// RegisterAdminRoutes registers the staff CRUD routes. The caller
// wraps the router group with the auth middleware.
func (h *MenuHandler) RegisterAdminRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Post("/", h.HandleCreateItem)
	menuRoutes.Put("/:id", h.HandleUpdateItem)
	menuRoutes.Delete("/:id", h.HandleDeleteItem)
}

// HandleListMenu returns all menu items newest first, optionally
// filtered by ?category=.
func (h *MenuHandler) HandleListMenu(c *fiber.Ctx) error {
	items, err := h.catalog.ListItems()
	if err != nil {
		log.Printf("Error listing menu items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu",
			"error":   err.Error(),
		})
	}

	if category := c.Query("category"); category != "" {
		filtered := make([]models.MenuItem, 0, len(items))
		for _, item := range items {
			if item.Category == category {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	return c.JSON(items)
}

// draftFromForm builds a Draft from multipart form fields, coercing
// price to an integer rather than trusting the wire shape.
func draftFromForm(c *fiber.Ctx) (services.Draft, error) {
	draft := services.Draft{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Category:    c.FormValue("category", models.CategoryFood),
		Description: c.FormValue("description"),
		Status:      c.FormValue("status", models.StatusReady),
	}
	priceStr := c.FormValue("price")
	if priceStr != "" {
		price, err := strconv.ParseInt(priceStr, 10, 64)
		if err != nil {
			return draft, errors.New("price must be an integer")
		}
		draft.Price = price
	}
	if draft.Name == "" || priceStr == "" {
		return draft, errors.New("name and price are required")
	}
	return draft, nil
}

// imageFromForm stages the uploaded image file, if any. The returned
// closer must be called after submit.
func imageFromForm(c *fiber.Ctx, editor *services.Editor) (func(), error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No file part means no new image was chosen.
		return func() {}, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return func() {}, err
	}
	editor.AttachImage(services.ImageUpload{
		Filename: fileHeader.Filename,
		Reader:   file,
	})
	return func() { file.Close() }, nil
}

// HandleCreateItem creates a menu item from a multipart form with an
// image file, then responds with the stored item and a fresh listing.
func (h *MenuHandler) HandleCreateItem(c *fiber.Ctx) error {
	draft, err := draftFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	editor := services.NewEditor()
	editor.SetDraft(draft)
	closeImage, err := imageFromForm(c, editor)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded image",
			"error":   err.Error(),
		})
	}
	defer closeImage()

	item, err := editor.Submit(h.catalog)
	if err != nil {
		return h.submitError(c, err)
	}
	return h.mutationResponse(c, fiber.StatusCreated, item)
}

// HandleUpdateItem applies a multipart form to an existing item. A
// missing image part retains the stored image.
func (h *MenuHandler) HandleUpdateItem(c *fiber.Ctx) error {
	existing, err := h.catalog.GetItem(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Menu item not found",
			"error":   err.Error(),
		})
	}

	draft, err := draftFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	editor := services.NewEditor()
	editor.BeginEdit(*existing)
	editor.SetDraft(draft)
	closeImage, err := imageFromForm(c, editor)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded image",
			"error":   err.Error(),
		})
	}
	defer closeImage()

	item, err := editor.Submit(h.catalog)
	if err != nil {
		return h.submitError(c, err)
	}
	return h.mutationResponse(c, fiber.StatusOK, item)
}

// HandleDeleteItem removes a menu item and its stored image.
func (h *MenuHandler) HandleDeleteItem(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.catalog.DeleteItem(id); err != nil {
		log.Printf("Error deleting menu item %s: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Menu item not found",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Menu item deleted",
	})
}

func (h *MenuHandler) submitError(c *fiber.Ctx, err error) error {
	log.Printf("Error saving menu item: %v", err)
	if errors.Is(err, services.ErrDraftInvalid) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	if strings.Contains(err.Error(), "not found") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Menu item not found",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not save menu item",
		"error":   err.Error(),
	})
}

// mutationResponse refetches the full catalog after a successful
// write so admin clients always render the store's view of the list.
func (h *MenuHandler) mutationResponse(c *fiber.Ctx, status int, item *models.MenuItem) error {
	items, err := h.catalog.ListItems()
	if err != nil {
		log.Printf("Error refetching menu after mutation: %v", err)
		return c.Status(status).JSON(fiber.Map{"item": item})
	}
	return c.Status(status).JSON(fiber.Map{
		"item":  item,
		"items": items,
	})
}
