// Package config resolves the autobot configuration directory and
// persists the flat key-value settings file stored there.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName  = "autobot"
	fileName = "config.yaml"
)

// Env is the slice of the process environment that directory resolution
// reads. Tests substitute their own.
type Env struct {
	Getenv  func(string) string
	HomeDir func() (string, error)
	GOOS    string
}

// OSEnv returns the real process environment.
func OSEnv() Env {
	return Env{Getenv: os.Getenv, HomeDir: os.UserHomeDir, GOOS: runtime.GOOS}
}

// Dir returns the autobot configuration directory, or "" when no home
// directory can be determined. See Env.Dir for the lookup order.
func Dir() string {
	return OSEnv().Dir()
}

// Path returns the settings file path inside Dir, or "" when Dir is unknown.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// Dir resolves the configuration directory from, in order:
// $AUTOBOT_CONFIG_HOME, $XDG_CONFIG_HOME/autobot on any platform,
// %AppData%/autobot on Windows, then ~/.config/autobot.
func (e Env) Dir() string {
	if dir := e.Getenv("AUTOBOT_CONFIG_HOME"); dir != "" {
		return dir
	}
	if xdg := e.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if appData := e.Getenv("APPDATA"); e.GOOS == "windows" && appData != "" {
		return filepath.Join(appData, appName)
	}
	home, err := e.HomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}
