// Package source reads the raw climatology bundle and the optional real
// cloud observations from disk. Both files may be plain JSON or the
// JavaScript assignment the static page ships with, e.g.
//
//	const SOCAL_DATA = { ... };
//	window.REAL_CLOUD_DATA = { ... };
package source

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"

	"github.com/angas/junegloom/climate"
)

var jsAssignRe = regexp.MustCompile(`(?s)^\s*(?:(?:const|let|var)\s+)?[\w.$]+\s*=\s*(\{.*\})\s*;?\s*$`)

type Loader struct {
	logger  *slog.Logger
	rawPath string
	obsPath string
}

func NewLoader(logger *slog.Logger, rawPath, obsPath string) *Loader {
	return &Loader{
		logger:  logger,
		rawPath: rawPath,
		obsPath: obsPath,
	}
}

// Paths lists the configured files, for watching.
func (l *Loader) Paths() []string {
	paths := make([]string, 0, 2)
	for _, p := range []string{l.rawPath, l.obsPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Load reads both files. A missing file is not an error, the build then
// runs on fallbacks. A file that exists but does not parse is.
func (l *Loader) Load() (*climate.Input, error) {
	raw, err := l.read(l.rawPath)
	if err != nil {
		return nil, err
	}
	obs, err := l.read(l.obsPath)
	if err != nil {
		return nil, err
	}

	in, err := Parse(raw, obs)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("source loaded",
		slog.String("checksum", in.Checksum),
		slog.Int("historical", len(in.Historical)),
		slog.Int("future", len(in.Future)),
		slog.Int("cities", len(in.Cities)),
		slog.Int("observations", len(in.Observations)))
	return in, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("source file missing, using fallbacks", slog.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes the raw bundle and observations. Either may be empty.
func Parse(raw, obs []byte) (*climate.Input, error) {
	in := &climate.Input{Checksum: Checksum(raw, obs)}

	if body := Unwrap(raw); len(body) > 0 {
		if err := json.Unmarshal(body, in); err != nil {
			return nil, fmt.Errorf("failed to parse raw climatology: %w", err)
		}
	}

	if body := Unwrap(obs); len(body) > 0 {
		if err := json.Unmarshal(body, &in.Observations); err != nil {
			return nil, fmt.Errorf("failed to parse observations: %w", err)
		}
	}

	return in, nil
}

// Unwrap strips a JavaScript assignment around a JSON object literal.
// Anything else is returned trimmed.
func Unwrap(data []byte) []byte {
	if m := jsAssignRe.FindSubmatch(data); m != nil {
		return m[1]
	}
	return bytes.TrimSpace(data)
}

// Checksum identifies a pair of source files.
func Checksum(raw, obs []byte) string {
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte{0})
	h.Write(obs)
	return hex.EncodeToString(h.Sum(nil))
}
