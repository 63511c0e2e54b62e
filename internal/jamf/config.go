// Package jamf implements the api.Client adapter against the management
// server's XML API. It owns authentication, wire serialization, and
// HTTP-level error classification; reconciliation logic never reaches
// below this boundary.
package jamf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

// Config carries the connection settings for one server. Credentials are
// passed in explicitly at construction; nothing here is read from ambient
// process state.
type Config struct {
	URL       string        `yaml:"url" validate:"required,url"`
	Username  string        `yaml:"username" validate:"required"`
	Password  string        `yaml:"password" validate:"required"`
	SSLVerify *bool         `yaml:"ssl_verify"`
	Timeout   time.Duration `yaml:"timeout"`
}

// VerifySSL reports the effective TLS verification setting (default true).
func (c Config) VerifySSL() bool {
	return c.SSLVerify == nil || *c.SSLVerify
}

// LoadConfig reads and validates a connection configuration document.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jamferrors.NewParseError(path, 0, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, jamferrors.NewParseError(path, 0, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		if invalid, ok := err.(validator.ValidationErrors); ok && len(invalid) > 0 {
			field := invalid[0].Field()
			return nil, jamferrors.NewValidationError(path, field, fmt.Sprintf("failed %s constraint", invalid[0].Tag()), err)
		}
		return nil, jamferrors.NewValidationError(path, "", err.Error(), err)
	}

	return &cfg, nil
}
