package backup

// Config controls snapshots taken before the stores are rewritten.
type Config struct {
	// Dir holds local snapshots. Empty means the workspace staging directory.
	Dir string `mapstructure:"dir" default:""`
	// RequireMirror makes a failed upload to object storage abort the operation.
	RequireMirror bool `mapstructure:"require_mirror" default:"false"`
	// Keep is the number of mirrored snapshots retained. Zero keeps all of them.
	Keep int `mapstructure:"keep" default:"0"`
}
