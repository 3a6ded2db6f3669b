// Command linker links legacy check and installment exports to a party export offline
// and prints the resulting aggregates.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/partylink/internal/config"
	enc "github.com/MrJamesThe3rd/partylink/internal/encoding"
	"github.com/MrJamesThe3rd/partylink/internal/importer"
	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/matching"
	"github.com/MrJamesThe3rd/partylink/internal/normalize"
	"github.com/MrJamesThe3rd/partylink/internal/party"
	"github.com/MrJamesThe3rd/partylink/internal/reconcile"
	"github.com/MrJamesThe3rd/partylink/internal/report"
	"github.com/MrJamesThe3rd/partylink/internal/similarity"
	"github.com/MrJamesThe3rd/partylink/internal/storage/memory"
)

// fileList collects a repeatable -instruments flag.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	var (
		partiesPath string
		instFiles   fileList
		charset     string
		suggestions bool
	)

	flag.StringVar(&partiesPath, "parties", "", "party export (CSV)")
	flag.Var(&instFiles, "instruments", "check or installment export (CSV); repeatable")
	flag.StringVar(&charset, "charset", "", "force the input charset instead of detecting it")
	flag.BoolVar(&suggestions, "suggestions", false, "print the candidates of instruments that were not linked")
	flag.Parse()

	if partiesPath == "" || len(instFiles) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	if err := run(context.Background(), os.Stdout, partiesPath, instFiles, charset, suggestions); err != nil {
		slog.Error("linking failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, partiesPath string, instFiles []string, charset string, showSuggestions bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var opts importer.Options

	if charset != "" {
		if opts.Charset, err = enc.ParseCharset(charset); err != nil {
			return err
		}
	}

	tag, _ := cfg.Language()

	var (
		store             = memory.New()
		importService     = importer.NewService()
		partyService      = party.NewService(store)
		instrumentService = instrument.NewService(store)
		linkageService    = linkage.NewService(store, store, store)
	)

	if err := loadParties(ctx, importService, partyService, partiesPath, opts); err != nil {
		return err
	}

	for _, path := range instFiles {
		if err := loadInstruments(ctx, importService, instrumentService, path, opts); err != nil {
			return err
		}
	}

	orchestrator := linking.New(linking.Deps{
		Parties:     store,
		Instruments: store,
		Links:       linkageService,
		Suggestions: store,
		Matcher:     matching.NewEngine(similarity.NewScorer(normalize.NewNameNormalizer(tag)), cfg.MatchingConfig()),
		Reconciler:  reconcile.NewEngine(store, linkageService, store, reconcile.WithRiskPolicy(cfg.RiskPolicy())),
	},
		linking.WithWorkers(cfg.Linking.Workers),
		linking.WithActor(cfg.Linking.Actor),
		linking.WithHighConfidence(cfg.Linking.HighConfidence),
	)

	res, err := orchestrator.RunAll(ctx)
	if err != nil {
		return fmt.Errorf("running batch: %w", err)
	}

	fmt.Fprint(out, report.Batch(*res))

	if showSuggestions {
		if err := printSuggestions(ctx, out, store, orchestrator); err != nil {
			return err
		}
	}

	stats, err := orchestrator.Stats(ctx)
	if err != nil {
		return fmt.Errorf("computing stats: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, report.Stats(*stats))

	ps, err := partyService.List(ctx, party.ListFilter{})
	if err != nil {
		return fmt.Errorf("listing parties: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, report.Parties(ps))

	return nil
}

func loadParties(ctx context.Context, imp *importer.Service, svc *party.Service, path string, opts importer.Options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	params, meta, err := imp.ParseParties(f, opts)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, p := range params {
		if _, err := svc.Create(ctx, p); err != nil {
			return fmt.Errorf("creating party %q: %w", p.Name, err)
		}
	}

	slog.Info("parties loaded", "file", path, "profile", meta.Profile, "charset", meta.Charset, "count", len(params))

	return nil
}

func loadInstruments(ctx context.Context, imp *importer.Service, svc *instrument.Service, path string, opts importer.Options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	params, meta, err := imp.ParseInstruments(f, opts)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if _, err := svc.CreateBatch(ctx, params); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	slog.Info("instruments loaded", "file", path, "profile", meta.Profile, "charset", meta.Charset, "count", len(params))

	return nil
}

func printSuggestions(ctx context.Context, out io.Writer, store *memory.Store, orchestrator *linking.Orchestrator) error {
	insts, err := store.ListInstruments(ctx, instrument.ListFilter{})
	if err != nil {
		return fmt.Errorf("listing instruments: %w", err)
	}

	for _, inst := range insts {
		s, err := orchestrator.Suggestions(ctx, inst.ID)
		if err != nil {
			return fmt.Errorf("loading suggestions: %w", err)
		}

		if len(s) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n%s %q %s\n", inst.Kind, inst.RawOwnerName, report.Amount(inst.Amount))
		fmt.Fprint(out, report.Suggestions(s))
	}

	return nil
}
