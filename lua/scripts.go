package lua

import "embed"

// CoreScripts holds the built-in host script, loaded in file name order.
//
//go:embed core/*.lua
var CoreScripts embed.FS
