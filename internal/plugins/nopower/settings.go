package nopower

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-nopower/internal/display"
	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/storage"
)

const (
	settingsSection = "Settings"
	buttonKey       = "Default Power Button"
	chatFormatKey   = "Chat Format"

	defaultButtonName = "FIRE_THIRD"
	defaultChatFormat = "{{ .Message }}"
)

type settings struct {
	button     game.Button
	chatFormat *display.Template
}

func defaultSettings() settings {
	tmpl, err := display.ParseTemplate(defaultChatFormat)
	if err != nil {
		panic(err)
	}
	return settings{
		button:     game.ButtonFireThird,
		chatFormat: tmpl,
	}
}

// loadSettings reads the plugin configuration, writing it back when defaults
// were filled in. Bad values are reported and replaced by their defaults for
// this run without touching the file.
func loadSettings(ctx context.Context, path string) settings {
	s := defaultSettings()

	cfg, err := storage.LoadDynamicConfig(path)
	if err != nil {
		slog.ErrorContext(ctx, "loading configuration, using defaults", "path", path, "error", err)
		cfg = storage.NewDynamicConfig("")
	}

	name := cfg.GetString(settingsSection, buttonKey, defaultButtonName)
	btn, err := game.ParseButton(name)
	if err != nil {
		slog.ErrorContext(ctx, "invalid power button, using default", "value", name, "default", defaultButtonName, "error", err)
	} else {
		s.button = btn
	}

	format := cfg.GetString(settingsSection, chatFormatKey, defaultChatFormat)
	tmpl, err := display.ParseTemplate(format)
	if err != nil {
		slog.ErrorContext(ctx, "invalid chat format, using default", "value", format, "error", err)
	} else {
		s.chatFormat = tmpl
	}

	_, err = cfg.SaveIfChanged()
	if err != nil {
		slog.ErrorContext(ctx, "saving configuration", "path", path, "error", err)
	}

	slog.DebugContext(ctx, "loaded settings", "button", s.button, "chat_format", s.chatFormat.String())
	return s
}
