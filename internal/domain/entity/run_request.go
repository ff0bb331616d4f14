package entity

const (
	DefaultQuantity     = 100
	DefaultMaxSuppliers = 5
)

// RunRequest это входные параметры одного прогона конвейера.
type RunRequest struct {
	RunID        string   `json:"run_id,omitempty"`
	Goal         string   `json:"goal"`
	Categories   []string `json:"categories,omitempty"`
	Budget       float64  `json:"budget"`
	MinMargin    float64  `json:"min_margin"`
	StoreName    string   `json:"store_name,omitempty"`
	Quantity     int      `json:"quantity,omitempty"`
	MaxSuppliers int      `json:"max_suppliers,omitempty"`
	SendEmails   bool     `json:"send_emails,omitempty"`
	DryRun       bool     `json:"dry_run,omitempty"`
	AdCopy       string   `json:"ad_copy,omitempty"`
}

// WithDefaults fills optional numeric fields.
func (r RunRequest) WithDefaults() RunRequest {
	if r.Quantity <= 0 {
		r.Quantity = DefaultQuantity
	}

	if r.MaxSuppliers <= 0 {
		r.MaxSuppliers = DefaultMaxSuppliers
	}

	return r
}
