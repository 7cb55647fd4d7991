package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

// QRHandler serves a QR code image pointing at the storefront, for
// printing on tables.
type QRHandler struct {
	storefrontURL string
}

// NewQRHandler creates a new QRHandler.
func NewQRHandler(storefrontURL string) *QRHandler {
	return &QRHandler{
		storefrontURL: storefrontURL,
	}
}

// RegisterRoutes registers the QR route.
func (h *QRHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/qr", h.HandleGetQR)
}

// HandleGetQR returns a PNG QR code of the storefront URL. Size in
// pixels via ?size=, default 300.
func (h *QRHandler) HandleGetQR(c *fiber.Ctx) error {
	size := c.QueryInt("size", 300)
	if size < 64 || size > 2048 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "size must be between 64 and 2048",
		})
	}

	png, err := qrcode.Encode(h.storefrontURL, qrcode.Medium, size)
	if err != nil {
		log.Printf("Error encoding QR code: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate QR code",
			"error":   err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
