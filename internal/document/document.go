// Package document reads and writes the intermediate schedule document that
// connects extraction and emission.
package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/timetable/internal/timetable"
)

// Format is the on-disk syntax of the document.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the format from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Encode serializes schedules. Map keys are written in sorted order so the
// same schedules always produce the same bytes.
func Encode(s timetable.Schedules, f Format) ([]byte, error) {
	if s == nil {
		s = timetable.Schedules{}
	}
	var buf bytes.Buffer
	switch f {
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	case JSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown document format %q", f)
	}
	return buf.Bytes(), nil
}

// Decode parses a document and checks that it has the expected shape.
func Decode(data []byte, f Format) (timetable.Schedules, error) {
	var s timetable.Schedules
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown document format %q", f)
	}
	if s == nil {
		s = timetable.Schedules{}
	}
	for name, cs := range s {
		if cs == nil {
			return nil, fmt.Errorf("class %s: empty record", name)
		}
		if cs.ClassName == "" {
			cs.ClassName = name
		}
		if cs.ClassName != name {
			return nil, fmt.Errorf("class %s: record names %s", name, cs.ClassName)
		}
		if cs.Schedule == nil {
			cs.Schedule = make(map[timetable.Day][]timetable.LessonSlot)
		}
		for day, slots := range cs.Schedule {
			if !isWeekday(day) {
				return nil, fmt.Errorf("class %s: unknown day %q", name, day)
			}
			for i, l := range slots {
				if l.LessonNumber < 1 {
					return nil, fmt.Errorf("class %s: %s slot %d: lesson number %d", name, day, i, l.LessonNumber)
				}
				if strings.TrimSpace(l.Subject) == "" {
					return nil, fmt.Errorf("class %s: %s slot %d: empty subject", name, day, i)
				}
			}
		}
	}
	return s, nil
}

func isWeekday(d timetable.Day) bool {
	for _, w := range timetable.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// Read loads a document from path, choosing the format by extension.
func Read(path string) (timetable.Schedules, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, data, nil
}

// WriteFile replaces path with data through a temporary file and a rename, so
// readers never observe a partially written file.
func WriteFile(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty output path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Digest returns the lowercase hex SHA-256 of data.
func Digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
