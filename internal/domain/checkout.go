package domain

// Order confirmation copy shown once checkout succeeds.
const (
	OrderPlacedTitle   = "Order Placed"
	OrderPlacedMessage = "Your order is placed. Thank you for shopping with us!"
)

// DeliveryDetails is the checkout form.
type DeliveryDetails struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"required,max=500"`
	Phone   string `json:"phone" validate:"required,max=40"`
}

// OrderConfirmation is returned by a successful mock checkout.
type OrderConfirmation struct {
	OrderRef   string `json:"order_ref"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	TotalPrice string `json:"total_price"`
	ItemCount  int    `json:"item_count"`
	UnitCount  int    `json:"unit_count"`
}
