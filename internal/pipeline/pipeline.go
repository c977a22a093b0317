package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"help2postman/internal/analysis"
	"help2postman/internal/config"
	"help2postman/internal/fetcher"
	"help2postman/internal/generator"
	"help2postman/internal/logging"
	"help2postman/internal/parser"
	"help2postman/internal/storage"
	"help2postman/internal/writer"
)

// Pipeline turns a help page into a Postman collection file:
// fetch -> parse -> generate -> write. Each stage consumes only the output of
// the previous one, and the output file is written only after the whole
// collection has been built.
type Pipeline struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
	parser  *parser.Parser

	// Store is optional. When set, each run is compared with the previous
	// snapshot of the same help page and then stored.
	Store storage.SnapshotStore
	// Out receives the progress lines. Defaults to os.Stdout.
	Out io.Writer
	Log *slog.Logger
}

// Result summarizes a successful run.
type Result struct {
	Sections   int
	Requests   int
	OutputPath string
	Changes    *analysis.ChangeReport // nil without a store or a previous snapshot
}

func New(cfg *config.Config, f fetcher.Fetcher, p *parser.Parser) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: f,
		parser:  p,
		Out:     os.Stdout,
		Log:     logging.Discard(),
	}
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	report := generator.NewRunReport(p.cfg.HelpURL, p.cfg.OutputPath)
	res, err := p.run(ctx, report)
	if p.cfg.ReportPath != "" {
		report.Finalize()
		if saveErr := writer.Save(p.cfg.ReportPath, report); saveErr != nil {
			if err == nil {
				return nil, fmt.Errorf("failed to save run report: %w", saveErr)
			}
			p.Log.Warn("pipeline: run report not saved", "path", p.cfg.ReportPath, "err", saveErr)
		}
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, report *generator.RunReport) (*Result, error) {
	html, err := p.fetchStage(ctx, report)
	if err != nil {
		return nil, err
	}

	sections, err := p.parseStage(html, report)
	if err != nil {
		return nil, err
	}

	res := &Result{OutputPath: p.cfg.OutputPath, Sections: len(sections)}
	if p.Store != nil {
		res.Changes = p.compareStage(ctx, sections, report)
	}

	collection := p.generateStage(sections, report)
	res.Requests = collection.RequestCount()

	if err := p.writeStage(collection, report); err != nil {
		return nil, err
	}

	if p.Store != nil {
		runID, err := p.Store.SaveSnapshot(ctx, p.cfg.HelpURL, sections)
		if err != nil {
			return nil, fmt.Errorf("failed to save snapshot: %w", err)
		}
		p.Log.Debug("pipeline: snapshot stored", "run", runID)
	}
	return res, nil
}

func (p *Pipeline) fetchStage(ctx context.Context, report *generator.RunReport) (string, error) {
	fmt.Fprintf(p.Out, "Fetching help page from %s...\n", p.cfg.HelpURL)
	h := report.BeginStage("fetch")

	html, err := p.fetcher.Fetch(ctx, p.cfg.HelpURL)
	report.EndStage(h, map[string]float64{"bytes": float64(len(html))}, err)
	if err != nil {
		return "", err
	}
	return html, nil
}

func (p *Pipeline) parseStage(html string, report *generator.RunReport) ([]parser.Section, error) {
	fmt.Fprintln(p.Out, "Parsing help page...")
	h := report.BeginStage("parse")

	sections, err := p.parser.ParseString(html)
	report.EndStage(h, map[string]float64{
		"sections":  float64(len(sections)),
		"endpoints": float64(parser.CountEndpoints(sections)),
	}, err)
	if err != nil {
		return nil, err
	}

	for _, s := range sections {
		p.Log.Debug("pipeline: section parsed", "section", s.Name, "endpoints", len(s.Endpoints))
	}
	if len(sections) == 0 {
		report.AddSignal("no_sections", "parse", "warning", "help page yielded no sections with endpoints", 0)
	}
	fmt.Fprintf(p.Out, "Found %d sections with APIs.\n", len(sections))
	return sections, nil
}

// compareStage never fails the run; a broken snapshot database only costs the change report.
func (p *Pipeline) compareStage(ctx context.Context, sections []parser.Section, report *generator.RunReport) *analysis.ChangeReport {
	h := report.BeginStage("compare")

	prev, err := p.Store.LatestSnapshot(ctx, p.cfg.HelpURL)
	if errors.Is(err, storage.ErrNoSnapshot) {
		report.EndStage(h, nil, nil)
		report.AddNote("compare", "no previous snapshot")
		return nil
	}
	if err != nil {
		report.EndStage(h, nil, err)
		p.Log.Warn("pipeline: previous snapshot unavailable", "err", err)
		return nil
	}

	changes := analysis.Compare(prev.Sections, sections)
	report.EndStage(h, map[string]float64{
		"added":   float64(len(changes.Added)),
		"removed": float64(len(changes.Removed)),
	}, nil)

	if !changes.HasChanges() {
		fmt.Fprintf(p.Out, "No endpoint changes since run #%d.\n", prev.ID)
		return changes
	}
	fmt.Fprintf(p.Out, "Detected %d new and %d removed endpoints since run #%d.\n", len(changes.Added), len(changes.Removed), prev.ID)
	for _, c := range changes.Added {
		fmt.Fprintf(p.Out, "  + %s (%s)\n", c.Endpoint.Key(), c.Section)
	}
	for _, c := range changes.Removed {
		fmt.Fprintf(p.Out, "  - %s (%s)\n", c.Endpoint.Key(), c.Section)
	}
	if len(changes.Removed) > 0 {
		report.AddSignal("endpoints_removed", "compare", "warning",
			fmt.Sprintf("%d endpoints disappeared from the help page", len(changes.Removed)), float64(len(changes.Removed)))
	}
	return changes
}

func (p *Pipeline) generateStage(sections []parser.Section, report *generator.RunReport) *generator.Collection {
	fmt.Fprintln(p.Out, "Generating Postman collection with folders and headers...")
	h := report.BeginStage("generate")

	gen := generator.New(generator.Options{BaseURL: p.cfg.BaseURL, APIKey: p.cfg.APIKey})
	collection := gen.Generate(sections)

	report.EndStage(h, map[string]float64{
		"folders":  float64(len(collection.Item)),
		"requests": float64(collection.RequestCount()),
	}, nil)
	report.RecordCollection(collection)
	return collection
}

func (p *Pipeline) writeStage(collection *generator.Collection, report *generator.RunReport) error {
	fmt.Fprintf(p.Out, "Saving Postman collection to %s...\n", p.cfg.OutputPath)
	h := report.BeginStage("write")

	err := writer.Save(p.cfg.OutputPath, collection)
	report.EndStage(h, nil, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.Out, "Postman collection saved to %s.\n", p.cfg.OutputPath)
	return nil
}
