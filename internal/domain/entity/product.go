package entity

import "storepilot/internal/domain/value"

type Product struct {
	Name       string              `json:"name" db:"name"`
	Category   string              `json:"category" db:"category"`
	Cost       float64             `json:"cost" db:"cost"`
	Price      float64             `json:"price" db:"price"`
	Margin     float64             `json:"margin" db:"margin"`
	TrendScore float64             `json:"trend_score" db:"trend_score"`
	Trending   bool                `json:"trending" db:"trending"`
	Signals    []value.TrendSignal `json:"signals,omitempty" db:"-"`
}

// NewProduct считает маржу сразу, чтобы она не расходилась с ценой.
func NewProduct(name, category string, cost, price float64) Product {
	return Product{
		Name:     name,
		Category: category,
		Cost:     cost,
		Price:    price,
		Margin:   value.Margin(cost, price),
	}
}

// Candidate это товар до оценки трендов.
type Candidate struct {
	Name     string    `json:"name" yaml:"name"`
	Category string    `json:"category" yaml:"category"`
	Keywords []string  `json:"keywords,omitempty" yaml:"keywords"`
	Cost     float64   `json:"cost" yaml:"cost"`
	Price    float64   `json:"price" yaml:"price"`
	Mentions int       `json:"mentions,omitempty" yaml:"mentions"`
	// Interest это локальный ряд 0..100 из каталога, если он есть.
	Interest []float64 `json:"-" yaml:"interest"`
}
