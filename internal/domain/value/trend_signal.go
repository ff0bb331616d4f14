package value

// TrendSignal это сигнал популярности от одного источника.
type TrendSignal struct {
	Source   string  `json:"source"`
	Mentions int     `json:"mentions"`
	Recent   float64 `json:"recent"`
	Peak     float64 `json:"peak"`
	Score    float64 `json:"score"`
	Trending bool    `json:"trending"`
}
