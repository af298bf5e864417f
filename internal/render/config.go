package render

import (
	"os"

	"github.com/luminalabs/lumina-cli/internal/config"
)

// OptionsFromConfig derives renderer options from the user configuration.
// The GLAMOUR_STYLE environment variable takes precedence over the
// configured theme.
func OptionsFromConfig(cfg *config.Config, width int) Options {
	opts := DefaultOptions().WithWidth(width)

	if cfg != nil && cfg.Theme != "" {
		opts.Theme = cfg.Theme
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Theme = style
	}

	return opts
}
