package pool

// Config holds the pool configuration.
// Designed for environment-based configuration using popular env parsing libraries.
type Config struct {
	MaxWorkers    int `env:"POOL_MAX_WORKERS" envDefault:"4"`
	QueueCapacity int `env:"POOL_QUEUE_CAPACITY" envDefault:"64"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:    4,
		QueueCapacity: DefaultQueueCapacity,
	}
}
