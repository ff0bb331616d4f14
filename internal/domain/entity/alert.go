package entity

import "time"

// TrendAlert это новый товар, найденный наблюдателем за категорией.
type TrendAlert struct {
	Category string    `json:"category"`
	Product  Product   `json:"product"`
	SeenAt   time.Time `json:"seen_at"`
}
