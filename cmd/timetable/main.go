package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/timetable/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps errors to the process exit status: 2 for configuration
// problems, 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrInvalidConfig):
		return 2
	default:
		return 1
	}
}

// options holds the raw flag values. Only flags the user set are applied on
// top of defaults, the config file and the environment.
type options struct {
	configPath string
	envFiles   []string

	source     string
	encoding   string
	document   string
	output     string
	target     string
	pkg        string
	dartImport string

	firstTable int
	grades     []int
	tableAttr  string
	tableValue string

	strictGrades  bool
	strictLetters bool

	workbook string
	pdf      string
	pdfFont  string

	logLevel  string
	logFormat string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:   "timetable",
		Short: "Extract school timetables from HTML and emit schedule data modules",
		Long: `timetable reads the published school timetable page, writes a normalized
JSON or YAML document keyed by class name, and renders it as a Go or Dart
source module with the schedules as static records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to a YAML or JSON config file")
	pf.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "Dotenv files to load before reading TIMETABLE_* variables")
	pf.StringVar(&opts.source, "source", "", "Path to the timetable HTML page")
	pf.StringVar(&opts.encoding, "encoding", "", "Character encoding of the page (detected when empty)")
	pf.StringVar(&opts.document, "document", "", "Path of the intermediate document (.json, .yaml or .yml)")
	pf.StringVar(&opts.output, "output", "", "Path of the generated module")
	pf.StringVar(&opts.target, "target", "", "Generated module language: go or dart")
	pf.StringVar(&opts.pkg, "package", "", "Package name of the generated Go module")
	pf.StringVar(&opts.dartImport, "dart-import", "", "Import URI of the Dart schedule models")
	pf.IntVar(&opts.firstTable, "tables.first", 0, "0-based index of the first grade table in the page")
	pf.IntSliceVar(&opts.grades, "tables.grades", nil, "Grades held by consecutive tables, in order")
	pf.StringVar(&opts.tableAttr, "tables.attr", "", "Only count tables carrying this attribute")
	pf.StringVar(&opts.tableValue, "tables.value", "", "Required value (or class token) of --tables.attr")
	pf.BoolVar(&opts.strictGrades, "strict.grades", false, "Fail when a class name disagrees with its table grade")
	pf.BoolVar(&opts.strictLetters, "strict.letters", false, "Fail when the letter table disagrees with the extracted classes")
	pf.StringVar(&opts.workbook, "workbook", "", "Write an .xlsx rendering to this path")
	pf.StringVar(&opts.pdf, "pdf", "", "Write a PDF rendering to this path")
	pf.StringVar(&opts.pdfFont, "pdf.font", "", "UTF-8 TrueType font for the PDF rendering")
	pf.StringVar(&opts.logLevel, "log.level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log.format", "", "Log format: pretty or json")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Shorthand for --log.level debug")

	stage := func(use, short string, fn func(context.Context, *app.App) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig(cmd.Flags(), opts)
				if err != nil {
					return report(err)
				}
				setupLogging(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.Verbose)
				a, err := app.New(cfg)
				if err != nil {
					return report(err)
				}
				return report(fn(cmd.Context(), a))
			},
		}
	}

	root.AddCommand(
		stage("extract", "Extract the timetable page into the intermediate document",
			func(ctx context.Context, a *app.App) error {
				_, err := a.Extract(ctx)
				return err
			}),
		stage("emit", "Render the intermediate document as a source module",
			func(ctx context.Context, a *app.App) error { return a.Emit(ctx) }),
		stage("run", "Extract, emit and export in one pass",
			func(ctx context.Context, a *app.App) error { return a.Run(ctx) }),
		stage("export", "Write the spreadsheet and PDF renderings of the document",
			func(ctx context.Context, a *app.App) error { return a.Export(ctx) }),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "timetable %s (commit %s, built %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
			},
		},
	)
	return root
}

// loadConfig layers defaults, config file, environment and flags, in
// increasing precedence.
func loadConfig(flags *pflag.FlagSet, opts options) (app.Config, error) {
	if err := app.LoadEnvFiles(opts.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("%w: %v", app.ErrInvalidConfig, err)
	}
	cfg := app.DefaultConfig()
	if opts.configPath != "" {
		fc, err := app.LoadConfigFile(opts.configPath)
		if err != nil {
			return cfg, err
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("source", func() { cfg.SourcePath = opts.source })
	set("encoding", func() { cfg.SourceEncoding = opts.encoding })
	set("document", func() { cfg.DocumentPath = opts.document })
	set("output", func() { cfg.OutputPath = opts.output })
	set("target", func() { cfg.Target = opts.target })
	set("package", func() { cfg.Package = opts.pkg })
	set("dart-import", func() { cfg.DartImport = opts.dartImport })
	set("tables.first", func() { cfg.FirstTable = opts.firstTable })
	set("tables.grades", func() { cfg.Grades = append([]int(nil), opts.grades...) })
	set("tables.attr", func() { cfg.TableAttr = opts.tableAttr })
	set("tables.value", func() { cfg.TableAttrValue = opts.tableValue })
	set("strict.grades", func() { cfg.StrictGrades = opts.strictGrades })
	set("strict.letters", func() { cfg.StrictLetters = opts.strictLetters })
	set("workbook", func() { cfg.WorkbookPath = opts.workbook })
	set("pdf", func() { cfg.PDFPath = opts.pdf })
	set("pdf.font", func() { cfg.PDFFontPath = opts.pdfFont })
	set("log.level", func() { cfg.LogLevel = opts.logLevel })
	set("log.format", func() { cfg.LogFormat = opts.logFormat })
	set("verbose", func() { cfg.Verbose = opts.verbose })

	if err := app.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func report(err error) error {
	if err != nil {
		log.Error().Err(err).Msg("run failed")
	}
	return err
}
