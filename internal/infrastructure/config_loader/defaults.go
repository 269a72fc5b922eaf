package loader

import "time"

const (
	// defaultConfPath is the fallback configuration directory when no overrides are provided.
	defaultConfPath = "configs"
	// envConfPath overrides the configuration directory when the flag is absent.
	envConfPath = "CONF_PATH"
	// envAppEnv selects the deployment environment label.
	envAppEnv = "APP_ENV"
	// envDatabaseURL overrides data.postgres.dsn.
	envDatabaseURL = "DATABASE_URL"
	// envPort overrides the port part of server.http.addr (Cloud Run style).
	envPort = "PORT"
	// envStorageRoot overrides storage.root.
	envStorageRoot = "STORAGE_ROOT"
	// envPubSubProject overrides outbox.project_id.
	envPubSubProject = "PUBSUB_PROJECT_ID"
	// envPubSubTopic overrides outbox.topic_id.
	envPubSubTopic = "PUBSUB_TOPIC_ID"

	defaultServiceName = "lingo-services-media"
	defaultEnvironment = "development"
	defaultHTTPAddr    = "0.0.0.0:8000"
	defaultStorageRoot = "./data/uploads"

	// Server timeout bounds every request context, so it must stay above
	// the command timeout or upload budgets are never reachable.
	defaultServerTimeout    = 90 * time.Second
	defaultCommandTimeout   = 60 * time.Second
	defaultQueryTimeout     = 3 * time.Second
	defaultTranscodeTimeout = 30 * time.Second

	defaultOutboxBatchSize   = 50
	defaultOutboxMaxAttempts = 10
	defaultOutboxTick        = 2 * time.Second
)

var envFileNames = []string{".env.local", ".env"}
