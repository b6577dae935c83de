package app

import (
	"github.com/hyperifyio/timetable/internal/emit"
	"github.com/hyperifyio/timetable/internal/timetable"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Source markup
	SourcePath     string
	SourceEncoding string

	// Table selection: tables FirstTable.. of the document hold Grades in order.
	FirstTable     int   `validate:"gte=0"`
	Grades         []int `validate:"min=1,unique,dive,gte=1,lte=12"`
	TableAttr      string
	TableAttrValue string
	StrictGrades   bool

	// Intermediate document (.json or .yaml)
	DocumentPath string `validate:"required"`

	// Generated module
	OutputPath    string
	Target        string `validate:"oneof=go dart"`
	Package       string `validate:"omitempty,goident"`
	DartImport    string
	Letters       emit.LetterTable
	StrictLetters bool

	// Exports
	WorkbookPath string
	PDFPath      string
	PDFFontPath  string

	// Logging
	LogLevel  string `validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `validate:"omitempty,oneof=pretty json"`
	Verbose   bool
}

// Defaults used when neither flags, env nor a config file set a value.
const (
	defaultSourcePath   = "data/schedule.html"
	defaultDocumentPath = "data/complete_schedules.json"
	defaultOutputPath   = "scheduledata/schedule_data.go"
	defaultTarget       = "go"
	defaultPackage      = "scheduledata"
	defaultDartImport   = "package:fizmat_app/models/schedule_models.dart"
	defaultFirstTable   = 8
)

// DefaultConfig returns the configuration for the school's published page:
// tables 8 to 12 hold grades 7 to 11.
func DefaultConfig() Config {
	return Config{
		SourcePath:   defaultSourcePath,
		DocumentPath: defaultDocumentPath,
		OutputPath:   defaultOutputPath,
		Target:       defaultTarget,
		Package:      defaultPackage,
		DartImport:   defaultDartImport,
		FirstTable:   defaultFirstTable,
		Grades:       []int{7, 8, 9, 10, 11},
		Letters:      emit.DefaultLetters(),
		LogLevel:     "info",
		LogFormat:    "pretty",
	}
}

// Selection returns the table selection described by cfg.
func (c Config) Selection() timetable.Selection {
	return timetable.Selection{
		First:  c.FirstTable,
		Grades: append([]int(nil), c.Grades...),
		Attr:   c.TableAttr,
		Value:  c.TableAttrValue,
	}
}
