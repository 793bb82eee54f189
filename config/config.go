package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the chartform configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "chartform")
}

// HostScript returns the path to the user's host.lua, loaded after the
// built-in host script when it exists.
func HostScript() string {
	return filepath.Join(Dir(), "host.lua")
}

// LogFile returns the path the terminal UI logs to.
func LogFile() string {
	return filepath.Join(Dir(), "chartform.log")
}

// UserScripts returns HostScript if present, followed by extra.
func UserScripts(extra ...string) []string {
	var scripts []string
	if _, err := os.Stat(HostScript()); err == nil {
		scripts = append(scripts, HostScript())
	}
	return append(scripts, extra...)
}
