package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string  // connection string for the database
	WaitForServices    string  // duration to wait for other services to be ready
	LogLevel           string  // sets the log level (zap log level values)
	SQLLogLevel        string  // sets the log level for sql subsystem
	LogFormat          string  // text vs json
	LogConfig          string  // path to file with zapfilter rules
	MigrationSourceURL string  // location of migration files
	ProviderURL        string  // base URL of the timing data provider
	ProviderCacheDir   string  // directory for cached provider payloads
	CleanAirThreshold  float64 // gap (seconds) to the car ahead to count as clean air
)
