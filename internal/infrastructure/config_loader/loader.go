// Package loader builds the bootstrap configuration bundle consumed by the
// Wire graphs: YAML file source, .env loading, environment overrides and
// defaulting, plus derived service metadata for logging.
package loader

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/joho/godotenv"
)

// ServiceMetadata identifies this running instance for logs.
type ServiceMetadata struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
}

// Bootstrap is the root of configs/config.yaml.
type Bootstrap struct {
	Server     ServerConfig     `json:"server"`
	Data       DataConfig       `json:"data"`
	Storage    StorageConfig    `json:"storage"`
	Transcoder TranscoderConfig `json:"transcoder"`
	Outbox     OutboxConfig     `json:"outbox"`
}

// ServerConfig groups the HTTP listener and handler timeout policies.
type ServerConfig struct {
	HTTP    HTTPConfig    `json:"http"`
	Handler HandlerConfig `json:"handler"`
}

// HTTPConfig configures the kratos HTTP server.
type HTTPConfig struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// TimeoutOrDefault parses the server timeout, falling back when unset.
func (c HTTPConfig) TimeoutOrDefault() time.Duration {
	return parseDuration(c.Timeout, defaultServerTimeout)
}

// HandlerConfig configures per-handler-kind timeouts.
type HandlerConfig struct {
	CommandTimeout string `json:"command_timeout"`
	QueryTimeout   string `json:"query_timeout"`
}

// CommandTimeoutOrDefault returns the write-path handler timeout. Uploads
// stream whole files, so the default is generous.
func (c HandlerConfig) CommandTimeoutOrDefault() time.Duration {
	return parseDuration(c.CommandTimeout, defaultCommandTimeout)
}

// QueryTimeoutOrDefault returns the read-path handler timeout.
func (c HandlerConfig) QueryTimeoutOrDefault() time.Duration {
	return parseDuration(c.QueryTimeout, defaultQueryTimeout)
}

// DataConfig groups persistence settings.
type DataConfig struct {
	Postgres PostgresConfig `json:"postgres"`
}

// PostgresConfig configures the pgx pool.
type PostgresConfig struct {
	DSN             string `json:"dsn"`
	Schema          string `json:"schema"`
	MaxOpenConns    int32  `json:"max_open_conns"`
	MinOpenConns    int32  `json:"min_open_conns"`
	MaxConnLifetime string `json:"max_conn_lifetime"`
	MaxConnIdleTime string `json:"max_conn_idle_time"`
}

// MaxConnLifetimeOrZero parses the lifetime; zero means pgx defaults.
func (c PostgresConfig) MaxConnLifetimeOrZero() time.Duration {
	return parseDuration(c.MaxConnLifetime, 0)
}

// MaxConnIdleTimeOrZero parses the idle time; zero means pgx defaults.
func (c PostgresConfig) MaxConnIdleTimeOrZero() time.Duration {
	return parseDuration(c.MaxConnIdleTime, 0)
}

// StorageConfig locates the blob storage root.
type StorageConfig struct {
	Root string `json:"root"`
}

// TranscoderConfig tunes thumbnail generation.
type TranscoderConfig struct {
	Binary        string `json:"binary"`
	Timeout       string `json:"timeout"`
	MaxConcurrent int64  `json:"max_concurrent"`
}

// TimeoutOrDefault parses the per-run transcode timeout.
func (c TranscoderConfig) TimeoutOrDefault() time.Duration {
	return parseDuration(c.Timeout, defaultTranscodeTimeout)
}

// OutboxConfig configures the Pub/Sub outbox publisher. An empty topic
// disables the publisher entirely.
type OutboxConfig struct {
	ProjectID    string `json:"project_id"`
	TopicID      string `json:"topic_id"`
	BatchSize    int    `json:"batch_size"`
	TickInterval string `json:"tick_interval"`
	MaxAttempts  int32  `json:"max_attempts"`
}

// TickIntervalOrDefault parses the polling interval.
func (c OutboxConfig) TickIntervalOrDefault() time.Duration {
	return parseDuration(c.TickInterval, defaultOutboxTick)
}

// Loader aggregates the typed configuration pieces for Wire injection.
type Loader struct {
	Bootstrap *Bootstrap
	Service   ServiceMetadata
	TxConfig  txmanager.Config
}

// BuildError captures where configuration building failed.
type BuildError struct {
	Stage string
	Path  string
	Err   error
}

func (e BuildError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s at %q: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e BuildError) Unwrap() error { return e.Err }

// ParseConfPath registers and parses the -conf flag.
func ParseConfPath(fs *flag.FlagSet, args []string) (string, error) {
	var confPath string
	fs.StringVar(&confPath, "conf", "", "config path, eg: -conf configs")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return confPath, nil
}

// ResolveConfPath applies the fallback chain: explicit flag > CONF_PATH env
// > default directory.
func ResolveConfPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envConfPath); env != "" {
		return env
	}
	return defaultConfPath
}

// LoadBootstrap loads and validates the configuration bundle. The returned
// cleanup closes the underlying config source.
func LoadBootstrap(confPath, name, version string) (*Loader, func(), error) {
	confPath = ResolveConfPath(confPath)
	loadEnvFiles(confPath)

	c := config.New(config.WithSource(file.NewSource(confPath)))
	if err := c.Load(); err != nil {
		c.Close()
		return nil, nil, BuildError{Stage: "load", Path: confPath, Err: err}
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		c.Close()
		return nil, nil, BuildError{Stage: "scan", Path: confPath, Err: err}
	}
	applyEnvOverrides(&bc)
	applyDefaults(&bc)

	if err := validate(&bc); err != nil {
		c.Close()
		return nil, nil, BuildError{Stage: "validate", Path: confPath, Err: err}
	}

	return &Loader{
		Bootstrap: &bc,
		Service:   buildServiceMetadata(name, version),
		TxConfig:  txmanager.Config{},
	}, func() { c.Close() }, nil
}

// loadEnvFiles loads .env.local then .env, first from the config directory,
// then from the working directory. Missing files are fine.
func loadEnvFiles(confPath string) {
	dirs := []string{filepath.Dir(confPath), "."}
	if info, err := os.Stat(confPath); err == nil && info.IsDir() {
		dirs[0] = confPath
	}
	for _, dir := range dirs {
		for _, name := range envFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				_ = godotenv.Load(path)
			}
		}
	}
}

// applyEnvOverrides injects 12-factor style environment overrides on top of
// the file configuration.
func applyEnvOverrides(bc *Bootstrap) {
	if dsn := os.Getenv(envDatabaseURL); dsn != "" {
		bc.Data.Postgres.DSN = dsn
	}
	if root := os.Getenv(envStorageRoot); root != "" {
		bc.Storage.Root = root
	}
	if project := os.Getenv(envPubSubProject); project != "" {
		bc.Outbox.ProjectID = project
	}
	if topic := os.Getenv(envPubSubTopic); topic != "" {
		bc.Outbox.TopicID = topic
	}
	if port := os.Getenv(envPort); port != "" {
		host := "0.0.0.0"
		if h, _, err := net.SplitHostPort(bc.Server.HTTP.Addr); err == nil && h != "" {
			host = h
		}
		bc.Server.HTTP.Addr = net.JoinHostPort(host, port)
	}
}

func applyDefaults(bc *Bootstrap) {
	if bc.Server.HTTP.Addr == "" {
		bc.Server.HTTP.Addr = defaultHTTPAddr
	}
	if bc.Storage.Root == "" {
		bc.Storage.Root = defaultStorageRoot
	}
	if bc.Outbox.BatchSize <= 0 {
		bc.Outbox.BatchSize = defaultOutboxBatchSize
	}
	if bc.Outbox.MaxAttempts <= 0 {
		bc.Outbox.MaxAttempts = defaultOutboxMaxAttempts
	}
}

func validate(bc *Bootstrap) error {
	if bc.Data.Postgres.DSN == "" {
		return fmt.Errorf("postgres DSN is required (set DATABASE_URL)")
	}
	if strings.TrimSpace(bc.Storage.Root) == "" {
		return fmt.Errorf("storage root is required (set STORAGE_ROOT)")
	}
	return nil
}

func buildServiceMetadata(name, version string) ServiceMetadata {
	if name == "" {
		name = defaultServiceName
	}
	if version == "" {
		version = "dev"
	}
	env := os.Getenv(envAppEnv)
	if env == "" {
		env = defaultEnvironment
	}
	host, _ := os.Hostname()
	return ServiceMetadata{
		Name:        name,
		Version:     version,
		Environment: env,
		InstanceID:  host,
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
