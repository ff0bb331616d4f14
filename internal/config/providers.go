package config

import "time"

// LLM выбирает генератор текста. Пустой Provider отключает генерацию,
// тогда используются шаблоны.
type LLM struct {
	Provider    string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	APIKey      string        `env:"LLM_API_KEY" json:"-"`
	Model       string        `env:"LLM_MODEL"`
	BaseURL     string        `env:"LLM_BASE_URL"`
	Temperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.4"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	UsePlanner  bool          `env:"LLM_PLANNER" envDefault:"false"`
	TopicGuard  bool          `env:"LLM_TOPIC_GUARD" envDefault:"true"`
}

type Trends struct {
	// Source: catalog или llm.
	Source        string        `env:"TRENDS_SOURCE" envDefault:"catalog"`
	CatalogPath   string        `env:"TRENDS_CATALOG_PATH" envDefault:"catalog.yaml"`
	SerpAPIKey    string        `env:"SERPAPI_API_KEY" json:"-"`
	SerpAPIURL    string        `env:"SERPAPI_URL" envDefault:"https://serpapi.com"`
	SerpTimezone  int           `env:"SERPAPI_TZ" envDefault:"0"`
	RatePerSecond float64       `env:"TRENDS_RATE_PER_SECOND" envDefault:"2"`
	Burst         int           `env:"TRENDS_BURST" envDefault:"2"`
	CallTimeout   time.Duration `env:"TRENDS_CALL_TIMEOUT" envDefault:"15s"`
	CacheTTL      time.Duration `env:"TRENDS_CACHE_TTL" envDefault:"30m"`
	IdeasPerQuery int           `env:"TRENDS_IDEAS" envDefault:"8"`
}

type Suppliers struct {
	BaseURL       string        `env:"SUPPLIERS_URL"`
	APIKey        string        `env:"SUPPLIERS_API_KEY" json:"-"`
	MinTrust      float64       `env:"SUPPLIERS_MIN_TRUST" envDefault:"0.5"`
	RatePerSecond float64       `env:"SUPPLIERS_RATE_PER_SECOND" envDefault:"5"`
	Burst         int           `env:"SUPPLIERS_BURST" envDefault:"5"`
	CallTimeout   time.Duration `env:"SUPPLIERS_CALL_TIMEOUT" envDefault:"10s"`
}

type StoreHost struct {
	ShopURL     string        `env:"STOREHOST_URL"`
	AccessToken string        `env:"STOREHOST_ACCESS_TOKEN" json:"-"`
	APIVersion  string        `env:"STOREHOST_API_VERSION" envDefault:"2024-10"`
	TrialDays   int           `env:"STOREHOST_TRIAL_DAYS" envDefault:"14"`
	Timeout     time.Duration `env:"STOREHOST_TIMEOUT" envDefault:"20s"`
}

type Mail struct {
	BaseURL  string        `env:"SENDGRID_URL" envDefault:"https://api.sendgrid.com"`
	APIKey   string        `env:"SENDGRID_API_KEY" json:"-"`
	From     string        `env:"MAIL_FROM" envDefault:"purchasing@example.com"`
	FromName string        `env:"MAIL_FROM_NAME" envDefault:"StorePilot purchasing"`
	Timeout  time.Duration `env:"MAIL_TIMEOUT" envDefault:"15s"`
}
