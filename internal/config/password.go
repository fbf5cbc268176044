package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Accepted BCRYPT_COST range for deployed services. Tests build a
// PasswordConfig directly with a lower cost.
const (
	minBcryptCost = 10
	maxBcryptCost = 14
)

// PasswordConfig hashes and checks account passwords.
type PasswordConfig struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
	// Pepper is an optional server-wide secret mixed into every password.
	Pepper string `env:"PASSWORD_PEPPER"`
}

// NewPasswordConfig reads BCRYPT_COST and PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cfg := &PasswordConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid password configuration: %w", err)
	}
	if cfg.BcryptCost < minBcryptCost || cfg.BcryptCost > maxBcryptCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d",
			minBcryptCost, maxBcryptCost, cfg.BcryptCost)
	}
	return cfg, nil
}

// Hash returns the bcrypt hash of password.
func (c *PasswordConfig) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.salted(password), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Matches reports whether password produced hash. An empty hash never
// matches.
func (c *PasswordConfig) Matches(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), c.salted(password)) == nil
}

func (c *PasswordConfig) salted(password string) []byte {
	return []byte(password + c.Pepper)
}
