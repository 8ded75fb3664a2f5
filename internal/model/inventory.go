package model

// InventoryItem is one row of the live seafood board. The inventory table
// is owned by an external process; this service only ever reads it.
type InventoryItem struct {
	Item        string `json:"item"`
	Status      string `json:"status"`
	Price       string `json:"price"`
	LastUpdated string `json:"lastUpdated"`
}
