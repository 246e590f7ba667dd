package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"inventory-manager/core/database"
	"inventory-manager/core/inventory"
	"inventory-manager/core/kvstore"
	"inventory-manager/core/logger"
	"inventory-manager/core/peripheral"
	"inventory-manager/core/server"
	"inventory-manager/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root of every setting the service reads.
type Config struct {
	Server     server.Config     `mapstructure:"server"`
	Storage    storage.Config    `mapstructure:"storage"`
	Log        logger.Config     `mapstructure:"log"`
	Database   database.Config   `mapstructure:"database"`
	Store      kvstore.Config    `mapstructure:"store"`
	Peripheral peripheral.Config `mapstructure:"peripheral"`
	Inventory  inventory.Config  `mapstructure:"inventory"`
}

// LoadConfig reads dir/.env (when present) and the environment on top of the tag defaults.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal in production
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, reflect.TypeOf(Config{}), "")

	// inventory.transfer_threads <- INVENTORY_TRANSFER_THREADS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects driver names no component knows how to open.
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		value string
		known []string
	}{
		{"store.driver", c.Store.Driver, []string{kvstore.DriverMemory, kvstore.DriverSQL, kvstore.DriverObject}},
		{"database.driver", c.Database.Driver, []string{database.DriverMySQL, database.DriverSQLite}},
		{"peripheral.driver", c.Peripheral.Driver, []string{peripheral.DriverMemory, peripheral.DriverRemote}},
	}
	for _, chk := range checks {
		if !slices.Contains(chk.known, strings.ToLower(chk.value)) {
			return fmt.Errorf("invalid %s %q (expected one of %s)", chk.key, chk.value, strings.Join(chk.known, ", "))
		}
	}
	return nil
}

// bindValues registers every mapstructure key with its `default` tag so that
// AutomaticEnv can resolve it. Slice defaults are comma separated.
func bindValues(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, field.Type, key)
		case reflect.Slice:
			v.SetDefault(key, splitList(field.Tag.Get("default")))
		default:
			// Empty defaults still register the key
			v.SetDefault(key, field.Tag.Get("default"))
		}
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
