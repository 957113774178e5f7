package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "PORTSIDE_APP_ENV"
	EnvDBDSN  = "PORTSIDE_DB_DSN"
	EnvDBHost = "PORTSIDE_DB_HOST"
	EnvDBUser = "PORTSIDE_DB_USER"
	EnvDBName = "PORTSIDE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
