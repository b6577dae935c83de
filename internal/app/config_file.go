package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every configuration problem so callers can tell a
// bad setup apart from a failed run.
var ErrInvalidConfig = errors.New("invalid config")

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Source struct {
		Path     string `yaml:"path" json:"path"`
		Encoding string `yaml:"encoding" json:"encoding"`
	} `yaml:"source" json:"source"`

	Document string `yaml:"document" json:"document"`

	Output struct {
		Path       string `yaml:"path" json:"path"`
		Target     string `yaml:"target" json:"target"`
		Package    string `yaml:"package" json:"package"`
		DartImport string `yaml:"dartImport" json:"dartImport"`
	} `yaml:"output" json:"output"`

	Tables struct {
		First  *int   `yaml:"first" json:"first"`
		Grades []int  `yaml:"grades" json:"grades"`
		Attr   string `yaml:"attr" json:"attr"`
		Value  string `yaml:"value" json:"value"`
	} `yaml:"tables" json:"tables"`

	// Letters maps a grade to its section letters.
	Letters map[int][]string `yaml:"letters" json:"letters"`

	Strict struct {
		Grades  bool `yaml:"grades" json:"grades"`
		Letters bool `yaml:"letters" json:"letters"`
	} `yaml:"strict" json:"strict"`

	Export struct {
		Workbook string `yaml:"workbook" json:"workbook"`
		PDF      string `yaml:"pdf" json:"pdf"`
		PDFFont  string `yaml:"pdfFont" json:"pdfFont"`
	} `yaml:"export" json:"export"`

	Log struct {
		Level  string `yaml:"level" json:"level"`
		Format string `yaml:"format" json:"format"`
	} `yaml:"log" json:"log"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("%w: parse yaml: %v", ErrInvalidConfig, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("%w: parse json: %v", ErrInvalidConfig, err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("%w: parse config: %v (yaml) / %v (json)", ErrInvalidConfig, err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. It runs after
// defaults and before env and flags, which take precedence over it.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	setString(&cfg.SourcePath, fc.Source.Path)
	setString(&cfg.SourceEncoding, fc.Source.Encoding)
	setString(&cfg.DocumentPath, fc.Document)
	setString(&cfg.OutputPath, fc.Output.Path)
	setString(&cfg.Target, fc.Output.Target)
	setString(&cfg.Package, fc.Output.Package)
	setString(&cfg.DartImport, fc.Output.DartImport)

	if fc.Tables.First != nil {
		cfg.FirstTable = *fc.Tables.First
	}
	if len(fc.Tables.Grades) > 0 {
		cfg.Grades = append([]int(nil), fc.Tables.Grades...)
	}
	setString(&cfg.TableAttr, fc.Tables.Attr)
	setString(&cfg.TableAttrValue, fc.Tables.Value)

	if len(fc.Letters) > 0 {
		cfg.Letters = make(map[int][]string, len(fc.Letters))
		for g, ls := range fc.Letters {
			cfg.Letters[g] = append([]string(nil), ls...)
		}
	}
	if fc.Strict.Grades {
		cfg.StrictGrades = true
	}
	if fc.Strict.Letters {
		cfg.StrictLetters = true
	}

	setString(&cfg.WorkbookPath, fc.Export.Workbook)
	setString(&cfg.PDFPath, fc.Export.PDF)
	setString(&cfg.PDFFontPath, fc.Export.PDFFont)

	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFormat, fc.Log.Format)
	if fc.Verbose {
		cfg.Verbose = true
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	return v
}

// ValidateConfig checks the settings every command needs. Paths used only by
// one stage are checked by that stage.
func ValidateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for g := range cfg.Letters {
		if !containsInt(cfg.Grades, g) {
			return fmt.Errorf("%w: letters configured for grade %d which is not in grades %v", ErrInvalidConfig, g, cfg.Grades)
		}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "goident":
		return fmt.Sprintf("%s must be a Go identifier, got %q", field, fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
		}
	}
	return fmt.Sprintf("%s failed %s=%s (value %v)", field, fe.Tag(), fe.Param(), fe.Value())
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func requirePath(name, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: %s path is required", ErrInvalidConfig, name)
	}
	return nil
}
