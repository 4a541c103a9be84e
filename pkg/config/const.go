package config

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "WAFARLE_DB_DSN"
	EnvDBHost = "WAFARLE_DB_HOST"
	EnvDBUser = "WAFARLE_DB_USER"
	EnvDBName = "WAFARLE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
