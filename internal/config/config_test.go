package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:           "3001",
		DBPassword:     "secure-password",
		DBSSLMode:      "require",
		Env:            "development",
		AdminUsername:  "admin",
		AdminPassword:  "local-dev-password",
		SessionTTLDays: 30,
		Topics:         "TECHNOLOGY,HEALTH",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing admin username", func(c *Config) { c.AdminUsername = "" }, true},
		{"zero session ttl", func(c *Config) { c.SessionTTLDays = 0 }, true},
		{"development without any admin password", func(c *Config) {
			c.AdminPassword = ""
			c.AdminPasswordHash = ""
		}, true},
		{"production without password hash", func(c *Config) {
			c.Env = "production"
			c.AdminPassword = "plaintext-is-not-enough"
		}, true},
		{"production with hash", func(c *Config) {
			c.Env = "production"
			c.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
		}, false},
		{"production with default db password", func(c *Config) {
			c.Env = "production"
			c.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
			c.DBPassword = "password"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: "test"}).IsProduction())
}

func TestConfig_TopicLabels(t *testing.T) {
	c := &Config{Topics: " TECHNOLOGY , HEALTH ,, LIFESTYLE "}
	assert.Equal(t, []string{"TECHNOLOGY", "HEALTH", "LIFESTYLE"}, c.TopicLabels())

	assert.Empty(t, (&Config{Topics: ""}).TopicLabels())
}

func TestConfig_SessionTTL(t *testing.T) {
	c := &Config{SessionTTLDays: 30}
	assert.Equal(t, 30*24*time.Hour, c.SessionTTL())
}
