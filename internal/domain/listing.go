package domain

import "time"

// StockLevel is the enumerated inventory-capacity state of a seller item.
// Inventory is counted discretely up to three units; above that it is
// treated as unlimited.
type StockLevel string

const (
	StockAvailable1     StockLevel = "AVAILABLE_1"
	StockAvailable2     StockLevel = "AVAILABLE_2"
	StockAvailable3     StockLevel = "AVAILABLE_3"
	StockManyAvailable  StockLevel = "MANY_AVAILABLE"
	StockMadeToOrder    StockLevel = "MADE_TO_ORDER"
	StockOngoingService StockLevel = "ONGOING_SERVICE"
	StockSold           StockLevel = "SOLD"
)

type SellerItem struct {
	ID         string     `json:"id"`
	SellerID   string     `json:"seller_id"`
	Name       string     `json:"name"`
	Duration   int        `json:"duration"` // contracted listing lifetime in weeks, always >= 1
	ExpiredBy  *time.Time `json:"expired_by,omitempty"`
	StockLevel StockLevel `json:"stock_level"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreateItemRequest struct {
	SellerID   string     `json:"seller_id"`
	Name       string     `json:"name"`
	Duration   int        `json:"duration"`
	StockLevel StockLevel `json:"stock_level,omitempty"`
}

type UpdateItemRequest struct {
	Name     *string `json:"name,omitempty"`
	Duration *int    `json:"duration,omitempty"`
}

// Order statuses.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	BuyerID   string    `json:"buyer_id"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateOrderRequest struct {
	ItemID   string `json:"item_id"`
	BuyerID  string `json:"buyer_id"`
	Quantity int    `json:"quantity"`
}
