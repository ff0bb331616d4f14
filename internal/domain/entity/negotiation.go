package entity

type NegotiationResult struct {
	SupplierID   string  `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	ContactEmail string  `json:"contact_email"`
	ProductName  string  `json:"product_name"`
	OfferedPrice float64 `json:"offered_price"`
	Discount     float64 `json:"discount"`
	Quantity     int     `json:"quantity"`
	Subject      string  `json:"subject"`
	Message      string  `json:"message"`
	Truncated    bool    `json:"truncated,omitempty"`
	Sent         bool    `json:"sent"`
	DryRun       bool    `json:"dry_run"`
}
