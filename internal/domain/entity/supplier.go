package entity

import (
	"time"

	"git.appkode.ru/pub/go/failure"
)

type Supplier struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	ContactEmail     string        `json:"contact_email"`
	MinOrderQuantity int           `json:"min_order_quantity"`
	LeadTime         time.Duration `json:"lead_time"`
	TrustScore       float64       `json:"trust_score"`
	ProductName      string        `json:"product_name"`
	UnitCost         float64       `json:"unit_cost,omitempty"`
}

// SupplierProfile это сырые данные каталога поставщиков.
type SupplierProfile struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ContactEmail     string  `json:"contact_email"`
	MinOrderQuantity int     `json:"min_order_quantity"`
	LeadTimeDays     int     `json:"lead_time_days"`
	Rating           float64 `json:"rating"`
	FulfillmentRate  float64 `json:"fulfillment_rate"`
	ResponseRate     float64 `json:"response_rate"`
	YearsActive      float64 `json:"years_active"`
	UnitCost         float64 `json:"unit_cost"`
}

type SupplierFailure struct {
	SupplierID  string            `json:"supplier_id"`
	ProductName string            `json:"product_name"`
	Kind        failure.ErrorCode `json:"kind"`
	Message     string            `json:"message"`
}
