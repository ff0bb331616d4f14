package config

import "time"

type Bot struct {
	Token    string  `env:"BOT_TOKEN" json:"-"`
	ChatID   int64   `env:"BOT_CHAT_ID"`
	AdminIDs []int64 `env:"BOT_ADMIN_IDS" envSeparator:","`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

type Server struct {
	HTTPAddress     string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	ProbeAddress    string        `env:"PROBE_ADDRESS" envDefault:":8081"`
	MetricsAddress  string        `env:"METRICS_ADDRESS" envDefault:":9090"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10m"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type Watch struct {
	Categories      []string      `env:"WATCH_CATEGORIES" envSeparator:","`
	Interval        time.Duration `env:"WATCH_INTERVAL" envDefault:"1h"`
	RequestInterval time.Duration `env:"WATCH_REQUEST_INTERVAL" envDefault:"5s"`
	MinScore        float64       `env:"WATCH_MIN_SCORE" envDefault:"60"`
	SeenTTL         time.Duration `env:"WATCH_SEEN_TTL" envDefault:"24h"`
}
