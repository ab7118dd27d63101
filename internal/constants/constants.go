package constants

// Environment variable names.
const (
	PORT                  = "PORT"
	DATABASE_DRIVER       = "DATABASE_DRIVER"
	DATABASE_URL          = "DATABASE_URL"
	SQLITE_PATH           = "SQLITE_PATH"
	JWT_SECRET            = "JWT_SECRET"
	TOKEN_TTL             = "TOKEN_TTL"
	BCRYPT_COST           = "BCRYPT_COST"
	CORS_ALLOWED_ORIGINS  = "CORS_ALLOWED_ORIGINS"
	RATE_LIMIT_PER_MINUTE = "RATE_LIMIT_PER_MINUTE"
	LOG_FORMAT            = "LOG_FORMAT"
	LOG_LEVEL             = "LOG_LEVEL"
)

// Database drivers.
const (
	DRIVER_POSTGRES = "postgres"
	DRIVER_SQLITE   = "sqlite"
	DRIVER_MEMORY   = "memory"
)
