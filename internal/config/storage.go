package config

import "time"

type Database struct {
	// Driver: pgx (Postgres) или sqlite.
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN             string        `env:"DB_DSN" envDefault:"file:storepilot.db?_pragma=busy_timeout(5000)" json:"-"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// Redis нужен для кэша трендов и очереди asynq; без адреса кэш живёт в памяти.
type Redis struct {
	Address  string `env:"REDIS_ADDRESS"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}
