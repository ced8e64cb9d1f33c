package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Admin         AdminConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Uploads       UploadsConfig
	PubSub        PubSubConfig
	Sendgrid      SendgridConfig
	CORS          CORSConfig
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BIZLINK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BIZLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"BIZLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BIZLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BIZLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BIZLINK_DB_DSN"`
	Driver string `envconfig:"BIZLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BIZLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"BIZLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BIZLINK_DB_USER"`
	LegacyPassword string `envconfig:"BIZLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"BIZLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"BIZLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BIZLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BIZLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BIZLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BIZLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BIZLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BIZLINK_REDIS_ADDR"`
	Password     string        `envconfig:"BIZLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIZLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIZLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIZLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIZLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIZLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIZLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BIZLINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BIZLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BIZLINK_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BIZLINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BIZLINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BIZLINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BIZLINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BIZLINK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BIZLINK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BIZLINK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BIZLINK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BIZLINK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BIZLINK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BIZLINK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BIZLINK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BIZLINK_AUTO_MIGRATE" default:"false"`
}

// AdminConfig guards the one-shot admin bootstrap endpoint.
type AdminConfig struct {
	SeedKey string `envconfig:"BIZLINK_ADMIN_SEED_KEY"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BIZLINK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"BIZLINK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BIZLINK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"BIZLINK_GCS_BUCKET_NAME" required:"true"`
}

type UploadsConfig struct {
	MaxFiles    int `envconfig:"BIZLINK_UPLOAD_MAX_FILES" default:"8"`
	MaxUploadMB int `envconfig:"BIZLINK_MAX_UPLOAD_MB" default:"25"`
}

type PubSubConfig struct {
	LeadsTopic        string `envconfig:"BIZLINK_PUBSUB_LEADS_TOPIC" required:"true"`
	LeadsSubscription string `envconfig:"BIZLINK_PUBSUB_LEADS_SUBSCRIPTION" required:"true"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"BIZLINK_SENDGRID_API_KEY"`
	BaseURL     string `envconfig:"BIZLINK_SENDGRID_BASE_URL" default:"https://api.sendgrid.com"`
	DefaultFrom string `envconfig:"BIZLINK_SENDGRID_FROM_EMAIL"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
