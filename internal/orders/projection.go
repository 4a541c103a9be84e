package orders

import (
	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// Presentation is the display triple the storefront renders for a status.
type Presentation struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var statusPresentations = map[enums.OrderStatus]Presentation{
	enums.OrderStatusPending:   {Label: "Pending", Icon: "clock", Color: "yellow"},
	enums.OrderStatusConfirmed: {Label: "Confirmed", Icon: "badge-check", Color: "blue"},
	enums.OrderStatusCompleted: {Label: "Completed", Icon: "check-circle", Color: "green"},
	enums.OrderStatusCancelled: {Label: "Cancelled", Icon: "x-circle", Color: "red"},
}

var shippingPresentations = map[enums.ShippingStatus]Presentation{
	enums.ShippingStatusPending:   {Label: "Awaiting Shipment", Icon: "package", Color: "gray"},
	enums.ShippingStatusPrepared:  {Label: "Prepared", Icon: "box", Color: "yellow"},
	enums.ShippingStatusShipped:   {Label: "Shipped", Icon: "truck", Color: "blue"},
	enums.ShippingStatusInTransit: {Label: "In Transit", Icon: "map-pin", Color: "indigo"},
	enums.ShippingStatusDelivered: {Label: "Delivered", Icon: "check-circle", Color: "green"},
}

// ProjectStatus maps an order status to its presentation. Unknown values
// fall back to the pending presentation.
func ProjectStatus(status enums.OrderStatus) Presentation {
	if p, ok := statusPresentations[status]; ok {
		return p
	}
	return statusPresentations[enums.OrderStatusPending]
}

// ProjectShipping maps a shipping status to its presentation. Unknown or
// absent values fall back to the awaiting-shipment presentation.
func ProjectShipping(status enums.ShippingStatus) Presentation {
	if p, ok := shippingPresentations[status]; ok {
		return p
	}
	return shippingPresentations[enums.ShippingStatusPending]
}
