// Package bootstrap wires runtime dependencies (database, Redis, session
// store) for the server and the seed command.
package bootstrap

import (
	"fmt"
	"log"

	"penlight/internal/cache"
	"penlight/internal/config"
	"penlight/internal/database"
	"penlight/internal/seed"
	"penlight/internal/session"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis, builds the session store and
// optionally seeds demo posts into an empty database.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, session.Store, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May result in a nil client if Redis is unreachable; the app then
	// runs uncached with in-memory sessions.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	creds, err := AdminCredentials(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var sessions session.Store
	if r != nil {
		sessions = session.NewRedisStore(r, creds, cfg.SessionTTL())
	} else {
		log.Println("Redis unavailable, falling back to in-memory sessions")
		sessions = session.NewMemoryStore(creds, cfg.SessionTTL())
	}

	if opts.SeedDemoData {
		if err := seed.NewSeeder(db).SeedIfEmpty(cfg.TopicLabels()); err != nil {
			return nil, nil, nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return db, r, sessions, nil
}

// AdminCredentials resolves the configured admin identity. Production
// requires a precomputed bcrypt hash; development may supply a plaintext
// password which is hashed here at startup.
func AdminCredentials(cfg *config.Config) (session.Credentials, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" {
		if cfg.IsProduction() {
			return session.Credentials{}, fmt.Errorf("ADMIN_PASSWORD_HASH is required in production")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return session.Credentials{}, fmt.Errorf("hash admin password: %w", err)
		}
		hash = string(hashed)
	}

	return session.Credentials{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
	}, nil
}
