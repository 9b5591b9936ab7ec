// Package config loads account and transport configuration for the
// REGISTER probe command using viper, generalizing firestige-Otus's
// internal/config (YAML file + env-var override, "imsphone." key prefix
// in place of its "capture-agent." root).
package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Transport is the channel endpoint the probe dials (§6.2 Endpoint).
type Transport struct {
	Protocol      string `mapstructure:"protocol"`
	LocalAddress  string `mapstructure:"local_address"`
	LocalPort     int    `mapstructure:"local_port"`
	RemoteAddress string `mapstructure:"remote_address"`
	RemotePort    int    `mapstructure:"remote_port"`
}

// Account carries the IMS subscriber identity and SIM credentials used to
// answer an AKAv1-MD5 challenge (§4.D).
type Account struct {
	IMPI   string `mapstructure:"impi"`
	Realm  string `mapstructure:"realm"`
	KiHex  string `mapstructure:"ki"`
	OPcHex string `mapstructure:"opc"`
}

// Ki decodes the account's hex-encoded subscriber key.
func (a Account) Ki() ([]byte, error) { return decodeHex("ki", a.KiHex) }

// OPc decodes the account's hex-encoded operator variant key.
func (a Account) OPc() ([]byte, error) { return decodeHex("opc", a.OPcHex) }

func decodeHex(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("config: account.%s: %w", field, err)
	}
	return b, nil
}

// Config is the top-level probe configuration, rooted at the "imsphone:"
// YAML key.
type Config struct {
	Transport Transport `mapstructure:"transport"`
	Account   Account   `mapstructure:"account"`
	LogLevel  string    `mapstructure:"log_level"`
}

type configRoot struct {
	IMSPhone Config `mapstructure:"imsphone"`
}

// Load reads configuration from the YAML file at path, applying defaults
// and IMSPHONE_-prefixed environment variable overrides (e.g.
// "imsphone.account.realm" -> IMSPHONE_ACCOUNT_REALM).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg := root.IMSPhone
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("imsphone.transport.protocol", "tcp")
	v.SetDefault("imsphone.transport.local_port", 5060)
	v.SetDefault("imsphone.transport.remote_port", 5060)
	v.SetDefault("imsphone.log_level", "info")
}

func (c Config) validate() error {
	if c.Transport.RemoteAddress == "" {
		return fmt.Errorf("config: transport.remote_address is required")
	}
	if c.Account.IMPI == "" {
		return fmt.Errorf("config: account.impi is required")
	}
	if c.Account.Realm == "" {
		return fmt.Errorf("config: account.realm is required")
	}
	return nil
}
