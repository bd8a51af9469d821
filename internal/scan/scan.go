// Package scan is the facade that wires the extractor, parser, registry,
// and validator together into the two-phase pipeline the CLI drives:
// ingest every matched file concurrently, then validate every ingested
// operation concurrently, never starting validation before ingestion is
// globally complete.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gqlsafeguard/gqlsafeguard/internal/extract"
	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
	"github.com/gqlsafeguard/gqlsafeguard/internal/registry"
	"github.com/gqlsafeguard/gqlsafeguard/internal/validate"
)

// Config controls which files are ingested and how tagged templates are
// recognized.
type Config struct {
	Cwd      string
	Patterns []string
	Ignores  []string
	Tags     []string
}

// Result is everything a scan produced: the frozen registry, the
// validation result, and every non-fatal diagnostic collected along the
// way.
type Result struct {
	Registry    *registry.Registry
	Validation  validate.Result
	Diagnostics Diagnostics
	Files       []string
}

// Run discovers files per cfg, ingests them concurrently, freezes the
// registry, then validates every operation concurrently.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	files, err := DiscoverFiles(cfg.Cwd, cfg.Patterns, cfg.Ignores)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}

	reg := registry.New()
	diags := ingest(ctx, files, extract.New(cfg.Tags), reg)
	reg.Freeze()

	validation := validate.Validate(reg)

	return &Result{
		Registry:    reg,
		Validation:  validation,
		Diagnostics: diags,
		Files:       files,
	}, nil
}

func ingest(ctx context.Context, files []string, ex *extract.Extractor, reg *registry.Registry) Diagnostics {
	var mu sync.Mutex
	var diags Diagnostics

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		file := file
		g.Go(func() (_ error) {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					diags.IOErrors = append(diags.IOErrors, &IOError{File: file, Err: fmt.Errorf("panic: %v", r)})
					mu.Unlock()
				}
			}()
			ingestFile(ctx, file, ex, reg, &mu, &diags)
			return nil
		})
	}
	_ = g.Wait()
	return diags
}

func ingestFile(ctx context.Context, file string, ex *extract.Extractor, reg *registry.Registry, mu *sync.Mutex, diags *Diagnostics) {
	content, err := os.ReadFile(file)
	if err != nil {
		mu.Lock()
		diags.IOErrors = append(diags.IOErrors, &IOError{File: file, Err: err})
		mu.Unlock()
		return
	}

	payloads, skipped, err := ex.Extract(ctx, content, file)
	if err != nil {
		mu.Lock()
		diags.HostParseErrors = append(diags.HostParseErrors, &HostParseError{File: file, Err: err})
		mu.Unlock()
		return
	}

	mu.Lock()
	for _, sk := range skipped {
		diags.SkippedTemplates = append(diags.SkippedTemplates, &SkippedInterpolation{File: sk.File, Line: sk.Line})
	}
	mu.Unlock()

	for _, p := range payloads {
		doc, err := gql.Parse(p)
		if err != nil {
			var parseErr *gql.ParseError
			if errors.As(err, &parseErr) {
				mu.Lock()
				diags.GraphQLErrors = append(diags.GraphQLErrors, parseErr)
				mu.Unlock()
			} else {
				slog.Warn("unexpected graphql parse failure", slog.String("file", file), slog.Any("err", err))
			}
			continue
		}
		for _, op := range doc.Operations {
			reg.InsertOperation(op)
		}
		for _, f := range doc.Fragments {
			reg.InsertFragment(f)
		}
	}
}
