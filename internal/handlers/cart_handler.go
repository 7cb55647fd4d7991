package handlers

import (
	"errors"
	"log"

	"github.com/kenzyo3030/cafe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes the cart state machine over HTTP. Customers are
// identified by an X-Session-ID header the storefront picks for each
// device; an absent header falls back to the default session.
type CartHandler struct {
	carts   *services.CartService
	catalog *services.CatalogService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService, catalog *services.CatalogService) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
	}
}

// RegisterRoutes registers the cart and checkout routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateLine)
	cartRoutes.Delete("/items/:id", h.HandleRemoveLine)
	router.Post("/checkout", h.HandleCheckout)
}

func session(c *fiber.Ctx) string {
	return c.Get("X-Session-ID")
}

// HandleGetCart returns the session's lines and totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	sid := session(c)
	return c.JSON(fiber.Map{
		"items":       h.carts.Lines(sid),
		"total_price": h.carts.TotalPrice(sid),
		"total_items": h.carts.TotalItemCount(sid),
	})
}

// HandleAddItem adds one unit of a menu item to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "item_id is required",
		})
	}

	item, err := h.catalog.GetItem(req.ItemID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Menu item not found",
			"error":   err.Error(),
		})
	}

	sid := session(c)
	if err := h.carts.AddItem(sid, *item); err != nil {
		if errors.Is(err, services.ErrSoldOut) {
			// A notice, not a failure: the cart is unchanged.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "This item is sold out",
			})
		}
		log.Printf("Error adding item %s to cart: %v", req.ItemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return h.HandleGetCart(c)
}

// HandleUpdateLine sets the quantity and/or notes of a cart line.
// Quantity zero removes the line.
func (h *CartHandler) HandleUpdateLine(c *fiber.Ctx) error {
	var req struct {
		Quantity *int    `json:"quantity"`
		Notes    *string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	sid := session(c)
	itemID := c.Params("id")
	if req.Quantity != nil {
		if err := h.carts.SetQuantity(sid, itemID, *req.Quantity); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid quantity",
				"error":   err.Error(),
			})
		}
	}
	if req.Notes != nil {
		if err := h.carts.SetNotes(sid, itemID, *req.Notes); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update notes",
				"error":   err.Error(),
			})
		}
	}
	return h.HandleGetCart(c)
}

// HandleRemoveLine removes a cart line.
func (h *CartHandler) HandleRemoveLine(c *fiber.Ctx) error {
	if err := h.carts.RemoveLine(session(c), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove cart line",
			"error":   err.Error(),
		})
	}
	return h.HandleGetCart(c)
}

// HandleCheckout finalizes the cart into an order and returns the
// WhatsApp deep link carrying the order summary.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var req struct {
		CustomerName string `json:"customer_name"`
		Address      string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result, err := h.carts.Checkout(session(c), req.CustomerName, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerInfo):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Please fill in your name and address/table",
			})
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Your cart is empty",
			})
		default:
			log.Printf("Error during checkout: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not complete checkout",
				"error":   err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
