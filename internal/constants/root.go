package constants

const (
	AppName            = "ascend"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/ascend/ascend.db"
	DefaultUserID      = "local"
	Version            = "v0.3.0"

	// Environment variables
	EnvConfig       = "ASCEND_CONFIG"
	EnvDebug        = "ASCEND_DEBUG"
	EnvCatalog      = "ASCEND_CATALOG"
	EnvDBConnection = "ASCEND_DB_CONNECTION"
	EnvTestPostgres = "POSTGRES_TEST_URL"
)
