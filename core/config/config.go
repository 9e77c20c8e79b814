package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"biblib/core/backup"
	"biblib/core/database"
	"biblib/core/logger"
	"biblib/core/metrics"
	"biblib/core/server"
	"biblib/core/storage"
	"biblib/core/workspace"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Workspace locates the three stores and the staging directory.
	Workspace workspace.Config `mapstructure:"workspace"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Backup controls snapshots taken before stores are rewritten.
	Backup backup.Config `mapstructure:"backup"`
	// Storage holds configuration for the object storage backup mirror.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the operation journal.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the HTTP report server.
	Server server.Config `mapstructure:"server"`
	// Metrics controls metrics export from CLI commands.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// LoadConfig loads configuration from environment variables, an optional .env file and an
// optional biblib.yaml, both looked up in path.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("biblib")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. WORKSPACE_ROOT -> workspace.root)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// JournalDatabase returns the database settings with a relative sqlite path resolved
// against the workspace root.
func (c *Config) JournalDatabase() database.Config {
	db := c.Database
	if (db.Driver == database.DriverSQLite || db.Driver == "") && db.Name != ":memory:" && !filepath.IsAbs(db.Name) {
		root := c.Workspace.Root
		if root == "" {
			root = "."
		}
		db.Name = filepath.Join(root, db.Name)
	}
	return db
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
