package app

import (
	"encoding/json"
	"path/filepath"

	"github.com/hyperifyio/timetable/internal/document"
	"github.com/hyperifyio/timetable/internal/timetable"
)

// manifest is the machine-readable sidecar written next to the document. It
// carries no timestamps so that two runs over the same source are identical.
type manifest struct {
	Source         string         `json:"source"`
	SourceSHA256   string         `json:"source_sha256"`
	Document       string         `json:"document"`
	DocumentSHA256 string         `json:"document_sha256"`
	FirstTable     int            `json:"first_table"`
	Grades         []int          `json:"grades"`
	Classes        int            `json:"classes"`
	Lessons        int            `json:"lessons"`
	Anomalies      map[string]int `json:"anomalies"`
	Version        string         `json:"version"`
	Commit         string         `json:"commit"`
}

func buildManifest(cfg Config, source, doc []byte, res timetable.Result) manifest {
	lessons := 0
	for _, c := range res.Schedules {
		lessons += c.LessonCount()
	}
	return manifest{
		Source:         filepath.ToSlash(cfg.SourcePath),
		SourceSHA256:   document.Digest(source),
		Document:       filepath.ToSlash(cfg.DocumentPath),
		DocumentSHA256: document.Digest(doc),
		FirstTable:     cfg.FirstTable,
		Grades:         append([]int(nil), cfg.Grades...),
		Classes:        len(res.Schedules),
		Lessons:        lessons,
		Anomalies:      res.Report.Summary(),
		Version:        BuildVersion,
		Commit:         BuildCommit,
	}
}

func writeManifest(path string, m manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return document.WriteFile(path, append(b, '\n'))
}

// manifestPath returns the sidecar path next to the document.
func manifestPath(documentPath string) string {
	return documentPath + ".manifest.json"
}
