package config

// DB holds the database configuration settings.
type DB struct {
	// Driver selects the storage backend: "sqlite", "mysql" or "postgres".
	Driver string
	// Path is the database file location (sqlite only).
	Path string

	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}
