package config

// Environment overrides.
const (
	EnvAPIURL   = "FLASHCARD_API_URL"
	EnvLogLevel = "FLASHCARD_LOG_LEVEL"
	EnvStateDir = "FLASHCARD_STATE_DIR"
)

const (
	defaultConfigPath        = "~/.config/flashcard/config.toml"
	defaultBaseURL           = "http://localhost:8000"
	defaultTimeoutSeconds    = 30
	defaultStateDir          = "~/.local/share/flashcard"
	defaultLogDir            = "~/.local/share/flashcard/logs"
	defaultFreshSeconds      = 30
	defaultCacheEntries      = 256
	defaultQueryRetries      = 1
	defaultDebounceMillis    = 300
	defaultSearchPageSize    = 10
	defaultGenerationPages   = 10
	defaultGenerationCards   = 20
	defaultUploadMaxBytes    = 10 * 1024 * 1024
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	maxGenerationCards       = 50
	maxSearchPageSize        = 100
	defaultRequestsPerSecond = 0
)

// Default returns a Config populated with client defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:           defaultBaseURL,
			TimeoutSeconds:    defaultTimeoutSeconds,
			RequestsPerSecond: defaultRequestsPerSecond,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Cache: Cache{
			FreshSeconds: defaultFreshSeconds,
			MaxEntries:   defaultCacheEntries,
			QueryRetries: defaultQueryRetries,
		},
		Search: Search{
			DebounceMillis: defaultDebounceMillis,
			PageSize:       defaultSearchPageSize,
		},
		Generation: Generation{
			DefaultPages: defaultGenerationPages,
			DefaultCards: defaultGenerationCards,
		},
		Upload: Upload{
			MaxBytes: defaultUploadMaxBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
