package config

import "time"

type Pipeline struct {
	TopProducts    int           `env:"PIPELINE_TOP_PRODUCTS" envDefault:"3"`
	Concurrency    int           `env:"PIPELINE_CONCURRENCY" envDefault:"4"`
	RetryAttempts  int           `env:"PIPELINE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInitial   time.Duration `env:"PIPELINE_RETRY_INITIAL" envDefault:"500ms"`
	RetryMax       time.Duration `env:"PIPELINE_RETRY_MAX" envDefault:"5s"`
	RunTimeout     time.Duration `env:"PIPELINE_RUN_TIMEOUT" envDefault:"10m"`
	ContactEmail   string        `env:"PIPELINE_CONTACT_EMAIL" envDefault:"support@example.com"`
	DefaultQueue   string        `env:"PIPELINE_QUEUE" envDefault:"default"`
	TaskMaxRetry   int           `env:"PIPELINE_TASK_MAX_RETRY" envDefault:"2"`
	WorkerParallel int           `env:"PIPELINE_WORKER_CONCURRENCY" envDefault:"2"`
}
