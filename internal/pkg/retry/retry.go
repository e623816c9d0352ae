package retry

import (
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 5
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

// RetryConfig describes a bounded exponential retry policy. It is used for
// startup-time dependencies (database connect); generation-service calls are
// deliberately never retried — their failures degrade to fallback values.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"5"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}
