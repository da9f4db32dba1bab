// Package scan discovers candidate chat export files under a directory tree
// and sniffs which platform each one came from.
package scan

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bishoy334/chat-analyser/internal/model"
)

// Candidate is one discovered export file with its sniffed platform.
type Candidate struct {
	Path     string
	Platform model.Platform
}

// sniffLimit bounds how much of an ambiguous file is read for content
// sniffing.
const sniffLimit = 64 * 1024

// Discover walks root and returns every regular file, skipping directories
// whose name starts with a dot or an underscore.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// DiscoverChats returns the discovered files that sniff as a known chat
// export format.
func DiscoverChats(root string) ([]Candidate, error) {
	files, err := Discover(root)
	if err != nil {
		return nil, err
	}
	var out []Candidate
	for _, path := range files {
		if platform, ok := Sniff(path); ok {
			out = append(out, Candidate{Path: path, Platform: platform})
		}
	}
	return out, nil
}

// Sniff decides which platform an export file belongs to: filename hints
// first (.whatsapp, .insta, .android anywhere in the name), then extension,
// with content inspection for ambiguous .json and .xml files.
func Sniff(path string) (model.Platform, bool) {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.Contains(name, ".whatsapp"):
		return model.PlatformWhatsApp, true
	case strings.Contains(name, ".insta"):
		return model.PlatformInstagram, true
	case strings.Contains(name, ".android"):
		return model.PlatformAndroid, true
	}

	switch filepath.Ext(name) {
	case ".txt":
		return model.PlatformWhatsApp, true
	case ".json":
		if sniffInstagramJSON(path) {
			return model.PlatformInstagram, true
		}
	case ".xml":
		if sniffAndroidXML(path) {
			return model.PlatformAndroid, true
		}
	}
	return "", false
}

// sniffInstagramJSON checks that the file is a JSON object carrying the
// Instagram export keys. Parse failures just mean "not this format".
func sniffInstagramJSON(path string) bool {
	head, err := readHead(path)
	if err != nil {
		return false
	}
	var probe struct {
		Participants json.RawMessage `json:"participants"`
		Messages     json.RawMessage `json:"messages"`
	}
	// the head may truncate mid-document; fall back to key presence
	if err := json.Unmarshal(head, &probe); err == nil {
		return probe.Participants != nil || probe.Messages != nil
	}
	return bytes.Contains(head, []byte(`"participants"`)) &&
		bytes.Contains(head, []byte(`"sender_name"`))
}

func sniffAndroidXML(path string) bool {
	head, err := readHead(path)
	if err != nil {
		return false
	}
	return bytes.Contains(head, []byte("<smses"))
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, sniffLimit)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// TitleFor derives a chat title from an export filename: extension and
// format hints stripped, separators spaced.
func TitleFor(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	for _, hint := range []string{".whatsapp", ".insta", ".android"} {
		if idx := strings.Index(strings.ToLower(name), hint); idx >= 0 {
			name = name[:idx] + name[idx+len(hint):]
		}
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.TrimSpace(name)
}
