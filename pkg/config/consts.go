package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "BIZLINK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv    = "BIZLINK_APP_ENV"
	EnvPort      = "BIZLINK_APP_PORT"
	EnvDBDSN     = "BIZLINK_DB_DSN"
	EnvDBHost    = "BIZLINK_DB_HOST"
	EnvDBUser    = "BIZLINK_DB_USER"
	EnvDBName    = "BIZLINK_DB_NAME"
	EnvRedisURL  = "BIZLINK_REDIS_URL"
	EnvJWTSecret = "BIZLINK_JWT_SECRET"
	EnvJWTIssuer = "BIZLINK_JWT_ISSUER"
	EnvJWTExpMin = "BIZLINK_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID = "BIZLINK_GCP_PROJECT_ID"
	EnvGCSBucket    = "BIZLINK_GCS_BUCKET_NAME"

	EnvPubSubLeadsTopic = "BIZLINK_PUBSUB_LEADS_TOPIC"
	EnvPubSubLeadsSub   = "BIZLINK_PUBSUB_LEADS_SUBSCRIPTION"

	EnvSeedKey = "BIZLINK_ADMIN_SEED_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
