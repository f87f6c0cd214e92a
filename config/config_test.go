package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SITE_DYNAMIC_RULES_URL", "https://rules.example.com/rules.json")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://onlyfans.com/api2/v2", cfg.Site.BaseURL)
	require.Equal(t, 5*time.Minute, cfg.Auth.SweepInterval)
	require.Equal(t, 10*time.Second, cfg.Auth.CloseTimeout)
	require.Equal(t, time.Minute, cfg.Auth.LoginTimeout)
	require.Equal(t, []string{"localhost:9093"}, cfg.Kafka.Brokers)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingRulesURL(t *testing.T) {
	t.Setenv("SITE_DYNAMIC_RULES_URL", "")

	_, err := Load()
	require.EqualError(t, err, "SITE_DYNAMIC_RULES_URL is required")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SITE_DYNAMIC_RULES_URL", "https://rules.example.com/rules.json")
	t.Setenv("AUTH_SWEEP_INTERVAL", "often")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "AUTH_SWEEP_INTERVAL")
}

func TestLoad_TrimsBaseURL(t *testing.T) {
	t.Setenv("SITE_DYNAMIC_RULES_URL", "https://rules.example.com/rules.json")
	t.Setenv("SITE_BASE_URL", "https://api.example.com/v2/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/v2", cfg.Site.BaseURL)
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	require.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", cfg.GetDSN())
}
