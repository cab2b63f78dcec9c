//go:build windows

package main

import (
	"os"
	"strconv"
)

// terminalSize only honours COLUMNS on Windows and never enables color.
func terminalSize() (int, bool) {
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n, false
		}
	}
	return 0, false
}
