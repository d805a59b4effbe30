package config

type Database struct {
	URL            string `env:"DATABASE_URL"`
	MigrateOnStart bool   `env:"DATABASE_MIGRATE" envDefault:"true"`
}

var _ DatabaseConfig = Database{}

// GetDatabaseURL returns the Postgres DSN. Empty means the in-memory user store.
func (d Database) GetDatabaseURL() string {
	return d.URL
}

func (d Database) GetMigrateOnStart() bool {
	return d.MigrateOnStart
}
