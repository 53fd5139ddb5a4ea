// Package jsonoutput writes scan documents and prints JSON to the console.
package jsonoutput

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout is the filename timestamp of scan documents.
const TimestampLayout = "20060102_150405"

// DocumentPaths returns the timestamped and latest paths for prefix in dir.
func DocumentPaths(dir, prefix string, now time.Time) (timestamped, latest string) {
	timestamped = filepath.Join(dir, fmt.Sprintf("%s_%s.json", prefix, now.Format(TimestampLayout)))
	latest = filepath.Join(dir, prefix+"_latest.json")
	return timestamped, latest
}

// WriteDocument writes doc as indented JSON to path, creating the parent
// directory when needed.
func WriteDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteScanDocument writes doc to the timestamped path and, unless latest is
// false, to the latest path. It returns the paths written.
func WriteScanDocument(dir, prefix string, doc any, now time.Time, latest bool) ([]string, error) {
	timestamped, latestPath := DocumentPaths(dir, prefix, now)
	if err := WriteDocument(timestamped, doc); err != nil {
		return nil, err
	}
	written := []string{timestamped}
	if !latest {
		return written, nil
	}
	if err := WriteDocument(latestPath, doc); err != nil {
		return written, err
	}
	return append(written, latestPath), nil
}

// PrintJSON writes v to w as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
