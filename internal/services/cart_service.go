package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/store"
)

// Cart and checkout validation failures. These are user notices, not
// remote errors; no state is mutated when one is returned.
var (
	ErrSoldOut         = errors.New("item is sold out")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCustomerInfo    = errors.New("customer name and address are required")
	ErrInvalidQuantity = errors.New("quantity cannot be negative")
)

// OrderPublisher emits an event when an order is placed. Publishing
// is best effort; a failed publish never fails a checkout.
type OrderPublisher interface {
	PublishOrderPlaced(order models.Order) error
}

// CheckoutResult is what a successful checkout hands back: the
// recorded order, the formatted summary, and the messaging deep link.
type CheckoutResult struct {
	Order       models.Order `json:"order"`
	Message     string       `json:"message"`
	WhatsAppURL string       `json:"whatsapp_url"`
}

// CartService runs the cart lifecycle for every active session and
// keeps the shared append-only order log. Cart and log state is
// written through to the local mirror on every mutation and loaded
// back on startup, so a restart does not lose an in-progress cart.
type CartService struct {
	kv        store.KV
	publisher OrderPublisher
	phone     string // WhatsApp number orders are sent to

	mu          sync.Mutex
	carts       map[string][]models.CartLine
	orders      []models.Order
	lastOrderID int64
}

// NewCartService creates a CartService and loads the persisted order
// log. Carts are loaded lazily per session. publisher may be nil.
func NewCartService(kv store.KV, publisher OrderPublisher, phone string) *CartService {
	s := &CartService{
		kv:        kv,
		publisher: publisher,
		phone:     phone,
		carts:     make(map[string][]models.CartLine),
	}
	var orders []models.Order
	if ok, err := kv.Load(store.KeyOrders, &orders); err != nil {
		log.Printf("Failed to load order log, starting empty: %v", err)
	} else if ok {
		s.orders = orders
		for _, o := range orders {
			if o.ID > s.lastOrderID {
				s.lastOrderID = o.ID
			}
		}
	}
	return s
}

// cartKey namespaces the mirror key per session. The default session
// uses the bare "cart" key.
func cartKey(session string) string {
	if session == "" {
		return store.KeyCart
	}
	return store.KeyCart + ":" + session
}

// lines returns the live slice for a session, loading it from the
// mirror on first touch. Callers must hold s.mu.
func (s *CartService) lines(session string) []models.CartLine {
	if cart, ok := s.carts[session]; ok {
		return cart
	}
	var cart []models.CartLine
	if ok, err := s.kv.Load(cartKey(session), &cart); err != nil {
		log.Printf("Failed to load cart for session %q, starting empty: %v", session, err)
		cart = nil
	} else if !ok {
		cart = nil
	}
	// Drop any lines a corrupt payload or older writer left at
	// quantity <= 0; a line never exists with zero quantity.
	kept := cart[:0]
	for _, l := range cart {
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	s.carts[session] = kept
	return kept
}

// persistCart writes a session's cart through to the mirror.
func (s *CartService) persistCart(session string) {
	if err := s.kv.Save(cartKey(session), s.carts[session]); err != nil {
		log.Printf("Failed to persist cart for session %q: %v", session, err)
	}
}

// persistOrders writes the order log through to the mirror.
func (s *CartService) persistOrders() {
	if err := s.kv.Save(store.KeyOrders, s.orders); err != nil {
		log.Printf("Failed to persist order log: %v", err)
	}
}

// AddItem puts one unit of a menu item in the session's cart. A line
// already holding the item gains quantity 1 with its notes untouched;
// otherwise a fresh line with quantity 1 and empty notes is added.
// Sold-out items are rejected with ErrSoldOut.
func (s *CartService) AddItem(session string, item models.MenuItem) error {
	if !item.Available() {
		return ErrSoldOut
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.lines(session)
	for i := range cart {
		if cart[i].ItemID == item.ID {
			cart[i].Quantity++
			s.persistCart(session)
			return nil
		}
	}
	s.carts[session] = append(cart, models.CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		Quantity: 1,
	})
	s.persistCart(session)
	return nil
}

// SetQuantity sets the quantity of the matching line. Zero removes
// the line, negatives are rejected, and an absent line is a no-op.
func (s *CartService) SetQuantity(session, itemID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.lines(session)
	for i := range cart {
		if cart[i].ItemID != itemID {
			continue
		}
		if quantity == 0 {
			s.carts[session] = append(cart[:i], cart[i+1:]...)
		} else {
			cart[i].Quantity = quantity
		}
		s.persistCart(session)
		return nil
	}
	return nil
}

// SetNotes replaces the notes of the matching line; no-op if absent.
func (s *CartService) SetNotes(session, itemID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.lines(session)
	for i := range cart {
		if cart[i].ItemID == itemID {
			cart[i].Notes = notes
			s.persistCart(session)
			return nil
		}
	}
	return nil
}

// RemoveLine removes the matching line if present.
func (s *CartService) RemoveLine(session, itemID string) error {
	return s.SetQuantity(session, itemID, 0)
}

// Lines returns a copy of the session's cart lines.
func (s *CartService) Lines(session string) []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.lines(session)
	out := make([]models.CartLine, len(cart))
	copy(out, cart)
	return out
}

// TotalPrice sums price times quantity over the session's lines.
func (s *CartService) TotalPrice(session string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.lines(session))
}

// TotalItemCount sums quantities over the session's lines.
func (s *CartService) TotalItemCount(session string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, l := range s.lines(session) {
		count += l.Quantity
	}
	return count
}

// Orders returns a copy of the order log, oldest first.
func (s *CartService) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	// Item slices would otherwise still point into the stored log.
	for i := range out {
		items := make([]models.CartLine, len(out[i].Items))
		copy(items, out[i].Items)
		out[i].Items = items
	}
	return out
}

// Checkout finalizes the session's cart. Both customer fields must be
// non-empty and the cart must hold at least one line; each violation
// is reported distinctly without touching state. On success the order
// is appended to the log and the cart cleared under one lock, so no
// caller can observe one without the other.
func (s *CartService) Checkout(session, customerName, address string) (*CheckoutResult, error) {
	if strings.TrimSpace(customerName) == "" || strings.TrimSpace(address) == "" {
		return nil, ErrCustomerInfo
	}

	s.mu.Lock()
	cart := s.lines(session)
	if len(cart) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}

	items := make([]models.CartLine, len(cart))
	copy(items, cart)
	total := totalOf(items)

	now := time.Now()
	id := now.UnixMilli()
	if id <= s.lastOrderID {
		id = s.lastOrderID + 1
	}
	s.lastOrderID = id

	order := models.Order{
		ID:           id,
		CustomerName: customerName,
		Address:      address,
		Items:        items,
		Total:        total,
		Date:         now.Format("02/01/2006 15:04:05"),
		PlacedAt:     now,
	}

	s.orders = append(s.orders, order)
	s.persistOrders()
	s.carts[session] = nil
	s.persistCart(session)
	s.mu.Unlock()

	message := buildOrderMessage(order)
	result := &CheckoutResult{
		Order:       order,
		Message:     message,
		WhatsAppURL: fmt.Sprintf("https://wa.me/%s?text=%s", s.phone, url.QueryEscape(message)),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(order); err != nil {
			log.Printf("Warning: failed to publish order placed event for order %d: %v", order.ID, err)
		}
	}
	return result, nil
}

func totalOf(lines []models.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// buildOrderMessage renders the order summary handed to the WhatsApp
// deep link. Line breaks are part of the format.
func buildOrderMessage(order models.Order) string {
	var b strings.Builder
	b.WriteString("*NEW ORDER*\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Address/Table: %s\n\n", order.Address)
	b.WriteString("*Order:*\n")
	for _, l := range order.Items {
		b.WriteString("• " + l.Name)
		if l.Notes != "" {
			fmt.Fprintf(&b, " (%s)", l.Notes)
		}
		fmt.Fprintf(&b, " x%d - Rp %s\n", l.Quantity, formatRupiah(l.Subtotal()))
	}
	fmt.Fprintf(&b, "\n*Total: Rp %s*", formatRupiah(order.Total))
	return b.String()
}
