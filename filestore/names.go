package filestore

import (
	"path/filepath"
	"strings"
)

// ResultFileName is the base name a result is stored under.
func ResultFileName(outputFile string) string {
	name := filepath.Base(outputFile)
	if name == "." || name == string(filepath.Separator) {
		return "results.txt"
	}
	return name
}

// StatsFileName is the name of the worker stats file stored next to a result.
func StatsFileName(outputFile string) string {
	name := ResultFileName(outputFile)
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_stats.json"
}
