package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/timetable/internal/document"
	"github.com/hyperifyio/timetable/internal/emit"
	"github.com/hyperifyio/timetable/internal/export"
	"github.com/hyperifyio/timetable/internal/markup"
	"github.com/hyperifyio/timetable/internal/timetable"
)

// ErrSourceRead is returned when the source markup cannot be read or parsed.
var ErrSourceRead = errors.New("source read")

// ErrTargetWrite is returned when a document, module or export cannot be written.
var ErrTargetWrite = errors.New("target write")

// ErrGradeMismatch is returned in strict mode when a header class name does
// not start with the grade its table position implies.
var ErrGradeMismatch = errors.New("grade mismatch")

// ErrLetterMismatch is returned in strict mode when the letter table and the
// extracted classes disagree.
var ErrLetterMismatch = errors.New("letter mismatch")

type App struct {
	cfg Config
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &App{cfg: cfg}, nil
}

// Extract reads the source markup and writes the intermediate document and
// its manifest.
func (a *App) Extract(ctx context.Context) (timetable.Result, error) {
	var res timetable.Result
	if err := requirePath("source", a.cfg.SourcePath); err != nil {
		return res, err
	}
	raw, err := os.ReadFile(a.cfg.SourcePath)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	root, err := markup.Parse(raw, a.cfg.SourceEncoding)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrSourceRead, a.cfg.SourcePath, err)
	}
	tables, err := timetable.Locate(root, a.cfg.Selection())
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrSourceRead, a.cfg.SourcePath, err)
	}
	if err := a.checkGrades(tables); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	res = timetable.Extract(tables)
	for _, an := range res.Report.Anomalies {
		log.Debug().Int("grade", an.Grade).Int("row", an.Row).Str("class", an.Class).Err(an.Err).Msg("row skipped")
	}
	ev := log.Info().Int("classes", len(res.Schedules)).Int("anomalies", len(res.Report.Anomalies))
	summary := res.Report.Summary()
	for _, kind := range sortedKeys(summary) {
		ev = ev.Int(kind, summary[kind])
	}
	ev.Msg("extracted schedules")

	data, err := document.Encode(res.Schedules, document.FormatFor(a.cfg.DocumentPath))
	if err != nil {
		return res, err
	}
	if err := document.WriteFile(a.cfg.DocumentPath, data); err != nil {
		return res, fmt.Errorf("%w: %v", ErrTargetWrite, err)
	}
	log.Info().Str("path", a.cfg.DocumentPath).Msg("wrote document")

	m := buildManifest(a.cfg, raw, data, res)
	if err := writeManifest(manifestPath(a.cfg.DocumentPath), m); err != nil {
		return res, fmt.Errorf("%w: %v", ErrTargetWrite, err)
	}
	return res, nil
}

func (a *App) checkGrades(tables []timetable.GradeTable) error {
	mismatches := timetable.CheckGrades(tables)
	for _, m := range mismatches {
		log.Warn().Int("grade", m.Grade).Str("class", m.Class).Int("prefix", m.Prefix).Msg("class name does not match table grade")
	}
	if a.cfg.StrictGrades && len(mismatches) > 0 {
		return fmt.Errorf("%w: %s", ErrGradeMismatch, mismatches[0])
	}
	return nil
}

// Emit reads the intermediate document and writes the generated module.
func (a *App) Emit(ctx context.Context) error {
	if err := requirePath("output", a.cfg.OutputPath); err != nil {
		return err
	}
	s, _, err := document.Read(a.cfg.DocumentPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	if err := a.checkLetters(s); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := emit.Render(s, emit.Options{
		Target:     emit.Target(a.cfg.Target),
		Package:    a.cfg.Package,
		DartImport: a.cfg.DartImport,
		Letters:    a.cfg.Letters,
	})
	if err != nil {
		return err
	}
	if err := document.WriteFile(a.cfg.OutputPath, out); err != nil {
		return fmt.Errorf("%w: %v", ErrTargetWrite, err)
	}
	log.Info().Str("path", a.cfg.OutputPath).Str("target", a.cfg.Target).Int("classes", len(s)).Msg("wrote module")
	return nil
}

func (a *App) checkLetters(s timetable.Schedules) error {
	mismatches := emit.CheckLetters(s, a.cfg.Letters)
	for _, m := range mismatches {
		ev := log.Warn().Int("grade", m.Grade).Str("letter", m.Letter)
		if m.Configured {
			ev.Msg("configured class has no extracted schedule")
		} else {
			ev.Msg("extracted class is missing from the letter table")
		}
	}
	if a.cfg.StrictLetters && len(mismatches) > 0 {
		m := mismatches[0]
		return fmt.Errorf("%w: grade %d letter %q", ErrLetterMismatch, m.Grade, m.Letter)
	}
	return nil
}

// Export writes the spreadsheet and PDF renderings that are configured.
func (a *App) Export(ctx context.Context) error {
	if a.cfg.WorkbookPath == "" && a.cfg.PDFPath == "" {
		return fmt.Errorf("%w: no export path configured (workbook or pdf)", ErrInvalidConfig)
	}
	s, _, err := document.Read(a.cfg.DocumentPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	if a.cfg.WorkbookPath != "" {
		if err := export.WriteWorkbook(s, a.cfg.WorkbookPath); err != nil {
			return fmt.Errorf("%w: %v", ErrTargetWrite, err)
		}
		log.Info().Str("path", a.cfg.WorkbookPath).Msg("wrote workbook")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.cfg.PDFPath != "" {
		if a.cfg.PDFFontPath == "" {
			if text, ok := export.NeedsUnicodeFont(s); ok {
				log.Warn().Str("path", a.cfg.PDFPath).Str("text", text).Msg("pdf text is outside windows-1252; set --pdf.font to a UTF-8 TrueType font")
			}
		}
		if err := export.WritePDF(s, a.cfg.PDFPath, export.PDFOptions{FontPath: a.cfg.PDFFontPath}); err != nil {
			return fmt.Errorf("%w: %v", ErrTargetWrite, err)
		}
		log.Info().Str("path", a.cfg.PDFPath).Msg("wrote pdf")
	}
	return nil
}

// Run extracts, emits and, when an export path is set, exports.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.Extract(ctx); err != nil {
		return err
	}
	if err := a.Emit(ctx); err != nil {
		return err
	}
	if a.cfg.WorkbookPath == "" && a.cfg.PDFPath == "" {
		return nil
	}
	return a.Export(ctx)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
