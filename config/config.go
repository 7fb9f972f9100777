package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"profile-sync"`
	Port       int    `env:"PORT" env-default:"3004"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// CiviCRM API
	CiviCRMEndpoint        string        `env:"CIVICRM_ENDPOINT" env-default:""`
	CiviCRMAPIKey          string        `env:"CIVICRM_API_KEY" env-default:""`
	CiviCRMSiteKey         string        `env:"CIVICRM_SITE_KEY" env-default:""`
	CiviCRMTimeout         time.Duration `env:"CIVICRM_TIMEOUT" env-default:"30s"`
	CiviCRMMaxIdleConns    int           `env:"CIVICRM_MAX_IDLE_CONNS" env-default:"100"`
	CiviCRMIdleConnTimeout time.Duration `env:"CIVICRM_IDLE_CONN_TIMEOUT" env-default:"90s"`

	// Metadata cache
	MetadataCacheMaxSize int           `env:"METADATA_CACHE_MAX_SIZE" env-default:"500"`
	MetadataCacheTTL     time.Duration `env:"METADATA_CACHE_TTL" env-default:"10m"`

	// PostgreSQL (field definition metadata)
	DatabaseDriver              string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                string        `env:"DB_HOST" env-default:""`
	DatabasePort                string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName            string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword            string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                string        `env:"DB_NAME" env-default:"profile_sync"`
	DatabaseSSLMode             string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion    int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce      int           `env:"DB_MIGRATION_FORCE" env-default:"0"`

	// Kafka Producer (sync result events)
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"sync-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"true"`
}

// Load reads optional .env files before the environment is bound.
// Missing files are not an error; real environment variables win.
func Load(filenames ...string) {
	_ = godotenv.Load(filenames...)
}
