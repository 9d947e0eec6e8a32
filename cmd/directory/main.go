// Command directory fetches the doctor list once and prints the filtered,
// sorted result as JSON. It applies the same filter state the API accepts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zatekoja/doctordirectory/internal/adapters/source"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/directory"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

// specialtyFlags collects repeated -specialty flags.
type specialtyFlags []string

func (s *specialtyFlags) String() string { return strings.Join(*s, ",") }

func (s *specialtyFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("directory", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		sourceURL   string
		fixture     string
		query       string
		search      string
		consultMode string
		sortBy      string
		listOnly    bool
		verbose     bool
		specialties specialtyFlags
	)
	fs.StringVar(&sourceURL, "source", "", "doctor feed URL (default from DOCTORS_SOURCE_URL)")
	fs.StringVar(&fixture, "fixture", "", "local JSON or YAML doctor fixture")
	fs.StringVar(&query, "query", "", "filter state as a query string, e.g. search=rao&sortBy=fees")
	fs.StringVar(&search, "search", "", "name search term")
	fs.StringVar(&consultMode, "consult", "", "consultation mode: Video Consult or In Clinic")
	fs.Var(&specialties, "specialty", "specialty to include (repeatable)")
	fs.StringVar(&sortBy, "sort", "", "sort order: fees or experience")
	fs.BoolVar(&listOnly, "specialties", false, "print the specialty options instead of doctors")
	fs.BoolVar(&verbose, "v", false, "log to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := zerolog.Disabled
	if verbose {
		level = zerolog.InfoLevel
	}
	observability.InitLoggerWithWriter(stderr, "directory-cli", "cli")
	zerolog.SetGlobalLevel(level)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if sourceURL != "" {
		cfg.Source.URL = sourceURL
	}
	if fixture != "" {
		cfg.Source.FixturePath = fixture
		if sourceURL == "" {
			cfg.Source.URL = ""
		}
	}

	// Individual flags override the matching -query parameter.
	overrides := directory.Values(directory.ParseQuery(query))
	if search != "" {
		overrides.Set(directory.ParamSearch, search)
	}
	if consultMode != "" {
		overrides.Set(directory.ParamConsultMode, consultMode)
	}
	if len(specialties) > 0 {
		overrides[directory.ParamSpecialty] = specialties
	}
	if sortBy != "" {
		overrides.Set(directory.ParamSortBy, sortBy)
	}
	state := directory.ParseFilterState(overrides)

	svc := services.NewDirectoryService(source.NewDoctorSource(cfg.Source, nil))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if listOnly {
		options, err := svc.Specialties(ctx, "")
		if err != nil {
			return err
		}
		return enc.Encode(options)
	}

	result, err := svc.Search(ctx, state)
	if err != nil {
		return err
	}
	return enc.Encode(result)
}
