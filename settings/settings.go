// Package settings persists the display settings read by renderers.
package settings

import (
	"os"
	"path/filepath"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 720

	ErrTypeInvalidSettings = "invalid_settings"
)

// Settings is the content of the settings file.
type Settings struct {
	Display *Display `toml:"display"`
}

// Display is the renderer window size.
type Display struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the settings used when none are persisted.
func Default() Settings {
	return Settings{
		Display: &Display{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

// storedSettings is the content of a settings file where every field may be
// absent.
type storedSettings struct {
	Display *struct {
		Width  *int `toml:"width"`
		Height *int `toml:"height"`
	} `toml:"display"`
}

// Load reads the settings file at path. Missing fields take their default
// value. When the file or its display table is missing, the defaults are
// written to it.
func Load(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s := Default()
		logs.WithTag("path", path).Info("writing default settings")
		return s, Save(path, s)
	}
	if err != nil {
		return Settings{}, errors.New("reading settings failed").
			WithTag("path", path).
			Wrap(err)
	}

	var stored storedSettings
	if err := toml.Unmarshal(b, &stored); err != nil {
		return Settings{}, errors.New("decoding settings failed").
			WithType(ErrTypeInvalidSettings).
			WithTag("path", path).
			Wrap(err)
	}

	s := Default()
	if stored.Display == nil {
		logs.WithTag("path", path).Info("adding default display settings")
		return s, Save(path, s)
	}

	if stored.Display.Width != nil {
		s.Display.Width = *stored.Display.Width
	}
	if stored.Display.Height != nil {
		s.Display.Height = *stored.Display.Height
	}
	return s, nil
}

// Save writes the settings to the file at path.
func Save(path string, s Settings) error {
	b, err := toml.Marshal(s)
	if err != nil {
		return errors.New("encoding settings failed").
			WithType(ErrTypeInvalidSettings).
			Wrap(err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.New("creating settings directory failed").
				WithTag("dir", dir).
				Wrap(err)
		}
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.New("writing settings failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
