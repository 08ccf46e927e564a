package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL             string        `mapstructure:"url"`
	StreamName      string        `mapstructure:"stream_name"`
	MaxReconnects   int           `mapstructure:"max_reconnects"`
	ReconnectWait   time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName  string        `mapstructure:"connection_name"`
	DuplicateWindow time.Duration `mapstructure:"duplicate_window"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EthereumConfig holds primary chain configuration
type EthereumConfig struct {
	RPCURL               string        `mapstructure:"rpc_url"`
	ChainID              domain.Chain  `mapstructure:"chain_id"`
	MasterAddress        string        `mapstructure:"master_address"`
	StartBlock           uint64        `mapstructure:"start_block"`
	Confirmations        uint64        `mapstructure:"confirmations"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	ReceiptConcurrency   int           `mapstructure:"receipt_concurrency"`
	NativeAsset          string        `mapstructure:"native_asset"`
	NativePrecision      int32         `mapstructure:"native_precision"`
}

// NetworkID returns the numeric EIP-155 chain id encoded in ChainID
func (c *EthereumConfig) NetworkID() (*big.Int, error) {
	reference, ok := strings.CutPrefix(string(c.ChainID), "eip155:")
	if !ok {
		return nil, fmt.Errorf("unsupported chain id: %s", c.ChainID)
	}
	id, ok := new(big.Int).SetString(reference, 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("invalid chain id: %s", c.ChainID)
	}
	return id, nil
}

// SignerConfig holds the notary key source. PrivateKey wins over the keystore.
type SignerConfig struct {
	PrivateKey       string `mapstructure:"private_key"`
	KeystorePath     string `mapstructure:"keystore_path"`
	KeystorePassword string `mapstructure:"keystore_password"`
}

// AuthConfig holds the credentials accepted for registrations
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GovernorConfig holds the withdrawal limit configuration of the governed asset
type GovernorConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Asset          string        `mapstructure:"asset"`
	TokenAddress   string        `mapstructure:"token_address"`
	PoolAddress    string        `mapstructure:"pool_address"`
	TokenPrecision int32         `mapstructure:"token_precision"`
	Divisor        string        `mapstructure:"divisor"`
	Precision      int32         `mapstructure:"precision"`
	Window         time.Duration `mapstructure:"window"`
}

// Replay guard backends
const (
	ReplayBackendPostgres = "postgres"
	ReplayBackendRedis    = "redis"
	ReplayBackendMemory   = "memory"
)

// ReplayConfig selects where consumed trigger hashes are recorded
type ReplayConfig struct {
	Backend string `mapstructure:"backend"`
}

// AddressPoolConfig holds the pool addresses seeded at startup
type AddressPoolConfig struct {
	Addresses []string `mapstructure:"addresses"`
}

// RateLimitConfig holds the API rate limits
type RateLimitConfig struct {
	RegistrationsPerMinute int `mapstructure:"registrations_per_minute"`
}

// LedgerConfig holds the secondary ledger settings
type LedgerConfig struct {
	// VerifierURL is the ledger endpoint confirming triggers
	VerifierURL string        `mapstructure:"verifier_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	// AllowUnverified lets the notary sign without a verifier, development only
	AllowUnverified bool `mapstructure:"allow_unverified"`
}

// NotaryConfig holds configuration for the notary daemon
type NotaryConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Server         ServerConfig      `mapstructure:"server"`
	Auth           AuthConfig        `mapstructure:"auth"`
	Database       DatabaseConfig    `mapstructure:"database"`
	NATS           NATSConfig        `mapstructure:"nats"`
	Redis          RedisConfig       `mapstructure:"redis"`
	Ethereum       EthereumConfig    `mapstructure:"ethereum"`
	Signer         SignerConfig      `mapstructure:"signer"`
	Governor       GovernorConfig    `mapstructure:"governor"`
	Replay         ReplayConfig      `mapstructure:"replay"`
	AddressPool    AddressPoolConfig `mapstructure:"address_pool"`
	RateLimit      RateLimitConfig   `mapstructure:"rate_limit"`
	Ledger         LedgerConfig      `mapstructure:"ledger"`
	ProofCacheSize int               `mapstructure:"proof_cache_size"`
}

// CollectorConfig holds configuration for the collect-proof tool
type CollectorConfig struct {
	BaseConfig     `mapstructure:",squash"`
	FederationPath string        `mapstructure:"federation_path"`
	Timeout        time.Duration `mapstructure:"timeout"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// ConsumerConfig holds the durable stream consumer settings of the event bridge
type ConsumerConfig struct {
	Name       string        `mapstructure:"name"`
	AckWait    time.Duration `mapstructure:"ack_wait"`
	MaxDeliver int           `mapstructure:"max_deliver"`
	NakDelay   time.Duration `mapstructure:"nak_delay"`
	Workers    int           `mapstructure:"workers"`
}

// WebhookConfig holds the ledger side receiver of relayed events
type WebhookConfig struct {
	URL         string        `mapstructure:"url"`
	Secret      string        `mapstructure:"secret"` // hex encoded HMAC key
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// EventBridgeConfig holds configuration for the event bridge
type EventBridgeConfig struct {
	BaseConfig  `mapstructure:",squash"`
	NATS        NATSConfig     `mapstructure:"nats"`
	Consumer    ConsumerConfig `mapstructure:"consumer"`
	Webhook     WebhookConfig  `mapstructure:"webhook"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
}

// LoadNotaryConfig loads configuration for the notary daemon
func LoadNotaryConfig(configFile string, envPath string) (*NotaryConfig, error) {
	v := configureViper("notary", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "BRIDGE_EVENTS")
	v.SetDefault("nats.connection_name", "notary")
	v.SetDefault("nats.duplicate_window", "2h")
	v.SetDefault("ethereum.chain_id", "eip155:1")
	v.SetDefault("ethereum.confirmations", 12)
	v.SetDefault("ethereum.poll_interval", "5s")
	v.SetDefault("ethereum.block_head_ttl", "12s")
	v.SetDefault("ethereum.block_head_stale_window", "1m")
	v.SetDefault("ethereum.receipt_concurrency", 8)
	v.SetDefault("ethereum.native_asset", "ether#ethereum")
	v.SetDefault("ethereum.native_precision", 18)
	v.SetDefault("governor.precision", 2)
	v.SetDefault("governor.window", "24h")
	v.SetDefault("replay.backend", ReplayBackendPostgres)
	v.SetDefault("rate_limit.registrations_per_minute", 10)
	v.SetDefault("ledger.http_timeout", "10s")
	v.SetDefault("ledger.allow_unverified", false)
	v.SetDefault("proof_cache_size", 4096)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg NotaryConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the required fields of the notary configuration
func (c *NotaryConfig) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if c.Ethereum.RPCURL == "" {
		return errors.New("ethereum.rpc_url is required")
	}
	if !domain.IsValidChain(c.Ethereum.ChainID) {
		return fmt.Errorf("ethereum.chain_id is not supported: %s", c.Ethereum.ChainID)
	}
	if !common.IsHexAddress(c.Ethereum.MasterAddress) {
		return errors.New("ethereum.master_address must be a hex address")
	}
	if c.Ethereum.NativeAsset == "" {
		return errors.New("ethereum.native_asset is required")
	}
	if c.Signer.PrivateKey == "" && c.Signer.KeystorePath == "" {
		return errors.New("signer.private_key or signer.keystore_path is required")
	}

	switch c.Replay.Backend {
	case ReplayBackendPostgres, ReplayBackendMemory:
	case ReplayBackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required by the redis replay backend")
		}
	default:
		return fmt.Errorf("unknown replay.backend: %s", c.Replay.Backend)
	}

	if c.Governor.Enabled {
		if c.Governor.Asset == "" {
			return errors.New("governor.asset is required")
		}
		if !common.IsHexAddress(c.Governor.TokenAddress) || !common.IsHexAddress(c.Governor.PoolAddress) {
			return errors.New("governor.token_address and governor.pool_address must be hex addresses")
		}
		if c.Governor.Divisor == "" {
			return errors.New("governor.divisor is required")
		}
	}

	for _, address := range c.AddressPool.Addresses {
		if !common.IsHexAddress(address) {
			return fmt.Errorf("address_pool.addresses contains an invalid address: %s", address)
		}
	}

	if c.Ledger.VerifierURL == "" && !c.Ledger.AllowUnverified {
		return errors.New("ledger.verifier_url is required unless ledger.allow_unverified is set")
	}

	return nil
}

// LoadCollectorConfig loads configuration for the collect-proof tool
func LoadCollectorConfig(configFile string, envPath string) (*CollectorConfig, error) {
	v := configureViper("collect-proof", configFile, envPath)

	// Set defaults
	v.SetDefault("federation_path", "config/federation.json")
	v.SetDefault("timeout", "30s")
	v.SetDefault("http_timeout", "10s")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg CollectorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.FederationPath == "" {
		return nil, errors.New("federation_path is required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}

	return &cfg, nil
}

// LoadEventBridgeConfig loads configuration for the event bridge
func LoadEventBridgeConfig(configFile string, envPath string) (*EventBridgeConfig, error) {
	v := configureViper("event-bridge", configFile, envPath)

	// Set defaults
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "BRIDGE_EVENTS")
	v.SetDefault("nats.connection_name", "event-bridge")
	v.SetDefault("consumer.name", "ledger-relay")
	v.SetDefault("consumer.ack_wait", "1m")
	v.SetDefault("consumer.max_deliver", 20)
	v.SetDefault("consumer.nak_delay", "10s")
	v.SetDefault("consumer.workers", 4)
	v.SetDefault("webhook.http_timeout", "10s")
	v.SetDefault("metrics_addr", ":9090")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg EventBridgeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}
	if cfg.Webhook.URL == "" {
		return nil, errors.New("webhook.url is required")
	}
	if cfg.Webhook.Secret == "" {
		return nil, errors.New("webhook.secret is required")
	}
	if cfg.Consumer.AckWait <= cfg.Webhook.HTTPTimeout {
		return nil, errors.New("consumer.ack_wait must exceed webhook.http_timeout")
	}

	return &cfg, nil
}

// readConfig reads the config file, falling back to environment variables when none exists
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/notary/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("NOTARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.duplicate_window",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.master_address",
		"ethereum.start_block",
		"ethereum.confirmations",
		"ethereum.poll_interval",
		"ethereum.block_head_ttl",
		"ethereum.block_head_stale_window",
		"ethereum.receipt_concurrency",
		"ethereum.native_asset",
		"ethereum.native_precision",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Signer
		"signer.private_key",
		"signer.keystore_path",
		"signer.keystore_password",
		// Governor
		"governor.enabled",
		"governor.asset",
		"governor.token_address",
		"governor.pool_address",
		"governor.token_precision",
		"governor.divisor",
		"governor.precision",
		"governor.window",
		// Notary
		"replay.backend",
		"address_pool.addresses",
		"rate_limit.registrations_per_minute",
		"ledger.verifier_url",
		"ledger.http_timeout",
		"ledger.allow_unverified",
		"proof_cache_size",
		// Event bridge
		"consumer.name",
		"consumer.ack_wait",
		"consumer.max_deliver",
		"consumer.nak_delay",
		"consumer.workers",
		"webhook.url",
		"webhook.secret",
		"webhook.http_timeout",
		"metrics_addr",
		// Collector
		"federation_path",
		"timeout",
		"http_timeout",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
