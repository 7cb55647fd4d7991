package models

import "time"

// Order is an immutable checkout record. Items hold a deep copy of the
// cart lines at checkout time; a later catalog price change or item
// deletion does not alter a recorded order.
type Order struct {
	ID           int64      `json:"id"`
	CustomerName string     `json:"customerName"`
	Address      string     `json:"address"`
	Items        []CartLine `json:"items"`
	Total        int64      `json:"total"`
	Date         string     `json:"date"`
	PlacedAt     time.Time  `json:"placed_at"`
}
