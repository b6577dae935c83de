package app

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides overrides cfg fields with TIMETABLE_* environment
// variables that are set. Env sits above the config file and below flags.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.SourcePath, "TIMETABLE_SOURCE")
	setString(&cfg.SourceEncoding, "TIMETABLE_SOURCE_ENCODING")
	setString(&cfg.DocumentPath, "TIMETABLE_DOCUMENT")
	setString(&cfg.OutputPath, "TIMETABLE_OUTPUT")
	setString(&cfg.Target, "TIMETABLE_TARGET")
	setString(&cfg.Package, "TIMETABLE_PACKAGE")
	setString(&cfg.DartImport, "TIMETABLE_DART_IMPORT")
	setString(&cfg.TableAttr, "TIMETABLE_TABLE_ATTR")
	setString(&cfg.TableAttrValue, "TIMETABLE_TABLE_VALUE")
	setString(&cfg.WorkbookPath, "TIMETABLE_WORKBOOK")
	setString(&cfg.PDFPath, "TIMETABLE_PDF")
	setString(&cfg.PDFFontPath, "TIMETABLE_PDF_FONT")
	setString(&cfg.LogLevel, "TIMETABLE_LOG_LEVEL")
	setString(&cfg.LogFormat, "TIMETABLE_LOG_FORMAT")

	if v := strings.TrimSpace(os.Getenv("TIMETABLE_FIRST_TABLE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FirstTable = n
		}
	}
	// TIMETABLE_GRADES is a comma-separated list, e.g. "7,8,9,10,11".
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_GRADES")); v != "" {
		if grades, ok := parseIntList(v); ok {
			cfg.Grades = grades
		}
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.StrictGrades, "TIMETABLE_STRICT_GRADES")
	setBool(&cfg.StrictLetters, "TIMETABLE_STRICT_LETTERS")
	setBool(&cfg.Verbose, "TIMETABLE_VERBOSE")
}

func parseIntList(s string) ([]int, bool) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, len(out) > 0
}
