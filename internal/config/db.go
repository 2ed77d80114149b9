package config

// Supported database engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineMongoDB  = "mongodb"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // sqlite, mysql, postgres or mongodb
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // sqlite file
	URI      string // mongodb connection string
}
