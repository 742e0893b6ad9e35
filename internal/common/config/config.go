// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig             `mapstructure:"app"`
	HTTP          HTTPConfig            `mapstructure:"http"`
	Database      DatabaseConfig        `mapstructure:"database"`
	Catalog       CatalogConfig         `mapstructure:"catalog"`
	Listings      ListingsConfig        `mapstructure:"listings"`
	Inference     InferenceConfig       `mapstructure:"inference"`
	Steps         map[string]StepConfig `mapstructure:"steps"`
	Workflow      WorkflowConfig        `mapstructure:"workflow"`
	Logging       LoggingConfig         `mapstructure:"logging"`
	Notifications NotificationConfig    `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CatalogConfig selects where the product and price tables come from.
// Source is "csv" or "postgres".
type CatalogConfig struct {
	Source           string `mapstructure:"source"`
	ProductsPath     string `mapstructure:"products_path"`
	UnitPricesPath   string `mapstructure:"unit_prices_path"`
	TestPricesPath   string `mapstructure:"test_prices_path"`
	ProductTestsPath string `mapstructure:"product_tests_path"`
}

type ListingsConfig struct {
	Path            string `mapstructure:"path"`
	DocumentBaseDir string `mapstructure:"document_base_dir"`
	DueWithinMonths int    `mapstructure:"due_within_months"`
}

type InferenceConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// StepConfig holds the core settings applicable to every pipeline step.
type StepConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// WorkflowConfig selects the workflow store backend: "memory" or "redis".
type WorkflowConfig struct {
	StoreBackend string `mapstructure:"store_backend"`
	TTLHours     int    `mapstructure:"ttl_hours"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type NotificationConfig struct {
	SNS SNSConfig `mapstructure:"sns"`
}

type SNSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}
