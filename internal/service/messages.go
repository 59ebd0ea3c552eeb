package service

import (
	"fmt"
	"strconv"

	"github.com/rawa7/hightech/internal/model"
)

// Prebuilt notification messages for the events the store app emits. Every
// data value is stringified up front (model.DataPayload); the app reads the
// "type" and "action" keys to decide where a tap navigates.

// OrderConfirmation announces a freshly confirmed order.
func OrderConfirmation(orderID string, totalAmount float64) (title, body string, data model.DataPayload) {
	title = "Order Confirmed!"
	body = fmt.Sprintf("Order #%s has been confirmed. Total: $%.2f", orderID, totalAmount)
	data = model.NewDataPayload().
		Set("type", "order_confirmed").
		Set("order_id", orderID).
		SetFloat("amount", totalAmount).
		Set("action", "view_order")
	return title, body, data
}

// OrderStatusUpdate announces an order status change.
func OrderStatusUpdate(orderID, status string) (title, body string, data model.DataPayload) {
	statusMessages := map[string]string{
		"processing": "Your order is being processed",
		"shipped":    "Your order has been shipped!",
		"delivered":  "Your order has been delivered!",
		"cancelled":  "Your order has been cancelled",
	}

	title = "Order Update"
	body, ok := statusMessages[status]
	if !ok {
		body = fmt.Sprintf("Order #%s status: %s", orderID, status)
	}
	data = model.NewDataPayload().
		Set("type", "order_status").
		Set("order_id", orderID).
		Set("status", status).
		Set("action", "view_order")
	return title, body, data
}

// PaymentReceived confirms a payment against an order.
func PaymentReceived(orderID string, amount float64) (title, body string, data model.DataPayload) {
	title = "Payment Received!"
	body = fmt.Sprintf("We've received your payment of $%.2f for Order #%s", amount, orderID)
	data = model.NewDataPayload().
		Set("type", "payment_received").
		Set("order_id", orderID).
		SetFloat("amount", amount).
		Set("action", "view_receipt")
	return title, body, data
}

// Promotion announces a discount campaign.
func Promotion(name, description string, discountPercent int) (title, body string, data model.DataPayload) {
	title = "Special Offer!"
	body = fmt.Sprintf("%s - Save %d%%!", name, discountPercent)
	data = model.NewDataPayload().
		Set("type", "promotion").
		Set("title", name).
		Set("description", description).
		Set("discount", strconv.Itoa(discountPercent)).
		Set("action", "view_products")
	return title, body, data
}

// LowStockAlert warns admins that a product is running out.
func LowStockAlert(productName string, currentStock int) (title, body string, data model.DataPayload) {
	title = "Low Stock Alert!"
	body = fmt.Sprintf("%s is running low (Only %d left)", productName, currentStock)
	data = model.NewDataPayload().
		Set("type", "low_stock").
		Set("product_name", productName).
		SetInt("stock", int64(currentStock)).
		Set("action", "restock")
	return title, body, data
}
