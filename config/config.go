package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultSlowQueryThreshold flags queries worth logging as slow.
	DefaultSlowQueryThreshold = 200 * time.Millisecond

	defaultPreloadChunkSize = 500
)

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

// Translation carries everything the translation store needs from the
// environment: the database it persists to, the language universe it serves
// and the sizing knobs of the preload pipeline.
type Translation struct {
	LogLevel string `envDefault:"info" env:"LOG_LEVEL"`

	DatabaseURL            string   `env:"DATABASE_URL"`
	ReplicaDatabaseURL     []string `env:"REPLICA_DATABASE_URL"`
	DatabaseTraceQueries   bool     `envDefault:"false" env:"DATABASE_TRACE_QUERIES"`
	DatabaseSlowQueryLimit string   `envDefault:"200ms" env:"DATABASE_SLOW_QUERY_LIMIT"`

	DefaultLanguageValue    string   `envDefault:"en"   env:"TRANSLATION_DEFAULT_LANGUAGE"`
	SupportedLanguagesValue []string `envDefault:"en"   env:"TRANSLATION_LANGUAGES"`
	FallbackMessagesFolder  string   `envDefault:""     env:"TRANSLATION_FALLBACK_MESSAGES_FOLDER"`

	PreloadChunkSizeValue int `envDefault:"500" env:"TRANSLATION_PRELOAD_CHUNK_SIZE"`

	WorkerPoolCPUFactorForWorkerCount int    `envDefault:"10"  env:"WORKER_POOL_CPU_FACTOR_FOR_WORKER_COUNT"`
	WorkerPoolCapacity                int    `envDefault:"100" env:"WORKER_POOL_CAPACITY"`
	WorkerPoolCount                   int    `envDefault:"1"   env:"WORKER_POOL_COUNT"`
	WorkerPoolExpiryDuration          string `envDefault:"1s"  env:"WORKER_POOL_EXPIRY_DURATION"`
}

func (t *Translation) LoggingLevel() string {
	return t.LogLevel
}

func (t *Translation) GetDatabaseURL() string {
	return t.DatabaseURL
}

func (t *Translation) GetReplicaDatabaseURL() []string {
	return t.ReplicaDatabaseURL
}

func (t *Translation) TraceQueries() bool {
	return t.DatabaseTraceQueries
}

func (t *Translation) GetSlowQueryThreshold() time.Duration {
	threshold, err := time.ParseDuration(t.DatabaseSlowQueryLimit)
	if err != nil {
		return DefaultSlowQueryThreshold
	}
	return threshold
}

func (t *Translation) DefaultLanguage() string {
	return t.DefaultLanguageValue
}

func (t *Translation) SupportedLanguages() []string {
	return t.SupportedLanguagesValue
}

func (t *Translation) PreloadChunkSize() int {
	if t.PreloadChunkSizeValue <= 0 {
		return defaultPreloadChunkSize
	}
	return t.PreloadChunkSizeValue
}

func (t *Translation) GetCPUFactor() int {
	return t.WorkerPoolCPUFactorForWorkerCount
}

func (t *Translation) GetCapacity() int {
	return t.WorkerPoolCapacity
}

func (t *Translation) GetCount() int {
	return t.WorkerPoolCount
}

func (t *Translation) GetExpiryDuration() time.Duration {
	expiry, err := time.ParseDuration(t.WorkerPoolExpiryDuration)
	if err != nil {
		return time.Second
	}
	return expiry
}

// ConfigurationDatabase is implemented by configs that can point the store at
// its translation database.
type ConfigurationDatabase interface {
	GetDatabaseURL() string
	GetReplicaDatabaseURL() []string
	TraceQueries() bool
	GetSlowQueryThreshold() time.Duration
}

// ConfigurationLanguages is implemented by configs that define the language
// universe for translated models.
type ConfigurationLanguages interface {
	DefaultLanguage() string
	SupportedLanguages() []string
}

// ConfigurationWorkerPool is implemented by configs that size the preload
// worker pool.
type ConfigurationWorkerPool interface {
	GetCPUFactor() int
	GetCapacity() int
	GetCount() int
	GetExpiryDuration() time.Duration
}

// ConfigurationLogLevel is implemented by configs carrying a log level.
type ConfigurationLogLevel interface {
	LoggingLevel() string
}
