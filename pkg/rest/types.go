// Package rest holds the wire types of the public HTTP API.
package rest

import "time"

type RunRequest struct {
	Goal         string   `json:"goal" validate:"required,max=500"`
	Categories   []string `json:"categories,omitempty" validate:"omitempty,max=10,dive,required,max=100"`
	Budget       float64  `json:"budget" validate:"required,gt=0"`
	MinMargin    float64  `json:"minMargin" validate:"gte=0,lt=1"`
	StoreName    string   `json:"storeName,omitempty" validate:"omitempty,max=63"`
	Quantity     int      `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	MaxSuppliers int      `json:"maxSuppliers,omitempty" validate:"omitempty,gt=0,lte=50"`
	SendEmails   bool     `json:"sendEmails,omitempty"`
	DryRun       bool     `json:"dryRun,omitempty"`
	AdCopy       string   `json:"adCopy,omitempty" validate:"omitempty,max=200"`
}

type RunAccepted struct {
	TaskID string `json:"taskId"`
	RunID  string `json:"runId"`
	Queue  string `json:"queue"`
}

type AdPredictRequest struct {
	ProductName string  `json:"productName" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	TrendScore  float64 `json:"trendScore" validate:"gte=0,lte=100"`
	Headline    string  `json:"headline,omitempty" validate:"omitempty,max=200"`
}

type AdPrediction struct {
	ProductName string   `json:"productName"`
	Headline    string   `json:"headline"`
	CTR         float64  `json:"ctr"`
	CPC         float64  `json:"cpc"`
	ROAS        float64  `json:"roas"`
	Notes       []string `json:"notes,omitempty"`
}

type Store struct {
	Name           string    `json:"name"`
	Domain         string    `json:"domain"`
	TrialExpiresAt time.Time `json:"trialExpiresAt"`
	CreatedAt      time.Time `json:"createdAt"`
	Existing       bool      `json:"existing"`
}

type StoreList struct {
	Stores []Store `json:"stores"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId,omitempty"`
}

type ErrorCode string
