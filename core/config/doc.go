// Package config provides configuration management for biblib.
//
// It utilizes Viper for loading configuration from environment variables, an optional
// .env file and an optional biblib.yaml in the working directory. Defaults come from the
// `default` struct tags of every section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Workspace: root directory and store layout
//   - Log: logging level and format
//   - Backup: snapshot directory, retention and mirroring policy
//   - Storage: S3/MinIO credentials for the backup mirror
//   - Database: journal driver and connection
//   - Server: HTTP report server settings
//   - Metrics: textfile export of CLI metrics
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	paths := cfg.Workspace.Paths()
package config
