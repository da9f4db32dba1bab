// Package export writes the computed analysis to flat JSON files: the full
// structure for the dashboard renderer and a lightweight variant with the
// per-chat message arrays cleared.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Bishoy334/chat-analyser/internal/aggregate"
)

const (
	FullFile = "analysis.json"
	LiteFile = "analysis.lite.json"
)

// WriteAnalysis writes both variants into dir, creating it if needed, and
// returns the file paths.
func WriteAnalysis(dir string, analysis *aggregate.HierarchicalAnalysis) (full, lite string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	full = filepath.Join(dir, FullFile)
	if err := writeJSON(full, analysis); err != nil {
		return "", "", err
	}

	lite = filepath.Join(dir, LiteFile)
	if err := writeJSON(lite, analysis.Lightweight()); err != nil {
		return "", "", err
	}
	return full, lite, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
