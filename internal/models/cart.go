package models

// CartLine is a single cart entry. Name, Price and Image are snapshots
// taken when the item was added, so later catalog edits do not change
// an in-progress cart.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// Subtotal returns the line's price times quantity.
func (l *CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}
