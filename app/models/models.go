// Package models holds the wire-level types exchanged with the backend API
// and the client-side cart line item built on top of them.
package models

import "time"

// Product is a catalogue product as returned by the backend. Cart items hold
// a copy of it, so a later price change never retroactively alters a line
// already in the cart.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	SKU         string   `json:"sku,omitempty"`
	Images      []string `json:"images,omitempty"`
	CategoryID  int64    `json:"category_id,omitempty"`
}

// ProductPage is one page of catalogue results.
type ProductPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

// Category groups products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// CartItem is one line of the cart.
//
// ID is either a backend-assigned line id (rendered as its decimal string)
// or a locally generated temporary id carrying the "local-" prefix while the
// line awaits backend confirmation. The prefix guarantees a temporary id can
// never collide with a real backend id.
type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Syncing  bool    `json:"is_syncing,omitempty"`
}

// LineTotal is the item's price × quantity.
func (i CartItem) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Order is a placed order.
type Order struct {
	ID        int64       `json:"id"`
	Status    string      `json:"status"`
	Total     float64     `json:"total"`
	Items     []OrderItem `json:"items,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderUpdate is a realtime order status change pushed over the websocket.
type OrderUpdate struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// User is an account as seen by the admin console.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult is the backend's response to login, register and OTP verify.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}
