package main

import (
	"net/url"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/lovezhqj/douyin-down/pkg/douyin"
	"github.com/lovezhqj/douyin-down/pkg/server"
)

type Config struct {
	// Server is the web server configuration
	Server server.Config `toml:"server"`
	// Log is the optional logging configuration
	Log Log `toml:"log"`
	// Resolver is the resolution pipeline policy
	Resolver douyin.Config `toml:"resolver"`
}

type Log struct {
	// Filename to write the log to (instead of stdout)
	Filename string `toml:"filename"`
	// Debug lowers the log level to debug
	Debug bool `toml:"debug"`
}

// LoadConfig loads TOML configuration from a file path. A missing file is not
// an error; the defaults stand in.
func LoadConfig(path string) (*Config, error) {
	config := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &config, nil
		}

		return nil, errors.Wrapf(err, "failed to read config file: %s", path)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal toml")
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	var result *multierror.Error

	if c.Server.TLS && (c.Server.CertificatePath == "" || c.Server.KeyFilePath == "") {
		result = multierror.Append(result, errors.New("TLS requires both certificate_path and key_file_path"))
	}

	if c.Resolver.DemoURL != "" {
		if _, err := url.ParseRequestURI(c.Resolver.DemoURL); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "demo_url must be a valid URL"))
		}
	}

	return result.ErrorOrNil()
}
