package entity

type AdPrediction struct {
	ProductName string   `json:"product_name"`
	Headline    string   `json:"headline"`
	CTR         float64  `json:"ctr"`
	CPC         float64  `json:"cpc"`
	ROAS        float64  `json:"roas"`
	Notes       []string `json:"notes,omitempty"`
}
