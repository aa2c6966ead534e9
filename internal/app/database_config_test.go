package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionConfigSQLite(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "SQLite",
		Path:     " ./data/translations.sqlite ",
		Postgres: DBAuthConfig{Host: "ignored"},
	}.ConnectionConfig()

	require.Equal(t, "sqlite", cfg.Driver)
	require.Equal(t, "./data/translations.sqlite", cfg.Path)
	require.Empty(t, cfg.Host)
}

func TestConnectionConfigSelectsDriverAuth(t *testing.T) {
	db := DatabaseConfig{
		Postgres: DBAuthConfig{Host: "pg.internal", Port: 5433, Database: "content", Username: "pg", Password: "pw"},
		MySQL:    DBAuthConfig{Host: "my.internal", Port: 3307, Database: "content", Username: "my", Options: map[string]string{"tls": "true"}},
	}

	db.Driver = "postgres"
	pg := db.ConnectionConfig()
	require.Equal(t, "pg.internal", pg.Host)
	require.Equal(t, 5433, pg.Port)
	require.Equal(t, "pg", pg.User)
	require.Equal(t, "pw", pg.Password)
	require.Equal(t, "content", pg.Name)

	db.Driver = "mysql"
	my := db.ConnectionConfig()
	require.Equal(t, "my.internal", my.Host)
	require.Equal(t, "my", my.User)
	require.Equal(t, "true", my.Options["tls"])
}
