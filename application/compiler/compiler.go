// Package compiler turns a tree of markdown documents into the flat article
// dataset consumed by the graph and query layers.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kbgraph/application/ports"
	"kbgraph/domain/config"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/validators"
	"kbgraph/domain/core/valueobjects"
	pkgerrors "kbgraph/pkg/errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "kbgraph/application/compiler"

// Run statuses reported to metrics
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// DocumentIssue describes a problem with one document
type DocumentIssue struct {
	Path   string `json:"path"`
	Slug   string `json:"slug,omitempty"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Result is the outcome of one compile run
type Result struct {
	RunID     string
	Root      string
	Articles  []entities.Article
	Documents int
	Failures  []DocumentIssue
	Warnings  []DocumentIssue
	Duration  time.Duration
}

// Failed reports whether nothing could be compiled even though problems were found
func (r *Result) Failed() bool {
	return len(r.Articles) == 0 && len(r.Failures) > 0
}

// Compiler walks a document tree and derives the article list
type Compiler struct {
	cfg       *config.DomainConfig
	writer    ports.ArtifactWriter
	metrics   ports.CompileMetrics
	logger    *zap.Logger
	tracer    trace.Tracer
	validator *validators.ArticleValidator
}

// NewCompiler creates a compiler. metrics may be nil.
func NewCompiler(
	cfg *config.DomainConfig,
	writer ports.ArtifactWriter,
	metrics ports.CompileMetrics,
	logger *zap.Logger,
) *Compiler {
	return &Compiler{
		cfg:       cfg.OrDefault(),
		writer:    writer,
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		validator: validators.NewArticleValidator(cfg.OrDefault().MaxTags),
	}
}

// Compile walks root and derives one article per document, in walk order.
// Per-document problems are collected in the result; only an unreadable root
// or a cancelled context returns an error.
func (c *Compiler) Compile(ctx context.Context, root string) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "compiler.Compile", trace.WithAttributes(
		attribute.String("corpus.root", root),
	))
	defer span.End()

	start := time.Now()
	res := &Result{
		RunID:    uuid.NewString(),
		Root:     root,
		Articles: []entities.Article{},
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, c.failSpan(span, pkgerrors.NewIOError(root, err))
	}
	if !info.IsDir() {
		return nil, c.failSpan(span, pkgerrors.NewIOError(root, errors.New("not a directory")))
	}

	seen := make(map[valueobjects.Slug]string)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return pkgerrors.NewIOError(root, err)
			}
			c.recordFailure(res, path, "", pkgerrors.NewIOError(path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), c.cfg.DocumentExtension) {
			return nil
		}

		res.Documents++
		slug := valueobjects.SlugFromPath(path, c.cfg.DocumentExtension)

		if first, dup := seen[slug]; dup {
			c.recordFailure(res, path, slug.String(),
				pkgerrors.NewValidationError(fmt.Sprintf("duplicate slug, already defined by %s", first)))
			return nil
		}

		article, ok := c.compileDocument(res, path, slug)
		if !ok {
			return nil
		}

		seen[slug] = path
		res.Articles = append(res.Articles, article)
		return nil
	})
	if walkErr != nil {
		return nil, c.failSpan(span, walkErr)
	}

	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.String("compile.run_id", res.RunID),
		attribute.Int("compile.documents", res.Documents),
		attribute.Int("compile.articles", len(res.Articles)),
		attribute.Int("compile.failures", len(res.Failures)),
	)

	return res, nil
}

// Run compiles root and, unless the run failed entirely, overwrites the artifact
func (c *Compiler) Run(ctx context.Context, root string) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "compiler.Run")
	defer span.End()

	start := time.Now()

	res, err := c.Compile(ctx, root)
	if err != nil {
		c.observe(StatusFailed, 0, 0, time.Since(start))
		c.logger.Error("Corpus compile failed",
			zap.String("root", root),
			zap.Error(err),
		)
		return nil, err
	}

	if res.Failed() {
		c.observe(StatusFailed, res.Documents, len(res.Failures), time.Since(start))
		c.logSummary(res, "")
		return res, c.failSpan(span, fmt.Errorf("no document in %s could be compiled (%d failures)", root, len(res.Failures)))
	}

	if err := c.writer.Save(ctx, res.Articles); err != nil {
		c.observe(StatusFailed, res.Documents, len(res.Failures), time.Since(start))
		c.logger.Error("Failed to write artifact",
			zap.String("run_id", res.RunID),
			zap.String("artifact", c.writer.Location()),
			zap.Error(err),
		)
		return res, c.failSpan(span, fmt.Errorf("failed to write artifact: %w", err))
	}

	res.Duration = time.Since(start)
	c.observe(StatusSucceeded, res.Documents, len(res.Failures), res.Duration)
	c.logSummary(res, c.writer.Location())

	return res, nil
}

// compileDocument reads and parses one document, recording any issue
func (c *Compiler) compileDocument(res *Result, path string, slug valueobjects.Slug) (entities.Article, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		c.recordFailure(res, path, slug.String(), pkgerrors.NewIOError(path, err))
		return entities.Article{}, false
	}

	article, degraded, err := ParseDocument(slug, raw, c.cfg)
	if err != nil {
		c.recordFailure(res, path, slug.String(), pkgerrors.NewParseError(path, err))
		return entities.Article{}, false
	}

	// The artifact loader applies the same rules
	if err := c.validator.Validate(&article); err != nil {
		c.recordFailure(res, path, slug.String(), pkgerrors.NewValidationError(err.Error()))
		return entities.Article{}, false
	}

	if degraded != nil {
		c.recordWarning(res, path, slug.String(), fmt.Sprintf("metadata ignored, defaults applied: %v", degraded))
	}
	if article.ConnectsTo(slug) {
		c.recordWarning(res, path, slug.String(), "connections include the article itself")
	}

	return article, true
}

func (c *Compiler) recordFailure(res *Result, path, slug string, err error) {
	res.Failures = append(res.Failures, DocumentIssue{Path: path, Slug: slug, Reason: err.Error(), Err: err})
	c.logger.Warn("Document skipped",
		zap.String("path", path),
		zap.String("slug", slug),
		zap.Error(err),
	)
}

func (c *Compiler) recordWarning(res *Result, path, slug, reason string) {
	res.Warnings = append(res.Warnings, DocumentIssue{Path: path, Slug: slug, Reason: reason})
	c.logger.Warn("Document degraded",
		zap.String("path", path),
		zap.String("slug", slug),
		zap.String("reason", reason),
	)
}

func (c *Compiler) logSummary(res *Result, artifact string) {
	c.logger.Info("Corpus compiled",
		zap.String("run_id", res.RunID),
		zap.String("root", res.Root),
		zap.String("artifact", artifact),
		zap.Int("documents", res.Documents),
		zap.Int("articles", len(res.Articles)),
		zap.Int("failures", len(res.Failures)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("duration", res.Duration),
	)
}

func (c *Compiler) observe(status string, documents, failures int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveCompile(status, documents, failures, d)
	}
}

func (c *Compiler) failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
