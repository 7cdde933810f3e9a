package lsp

import (
	"context"
	"errors"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/nrs-lang/nrs/analysis"
)

// ErrStaleVersion is returned by Update when a newer version of the document
// was requested before the analysis could be published.
var ErrStaleVersion = errors.New("stale document version")

// Coordinator turns document text into published snapshots. Analyses run
// outside the store lock and at most workers run at once.
type Coordinator struct {
	analyzer *analysis.Analyzer
	store    *DocumentStore
	sem      *semaphore.Weighted
	logger   *zap.Logger
}

// NewCoordinator creates a coordinator publishing into store.
func NewCoordinator(analyzer *analysis.Analyzer, store *DocumentStore, workers int, logger *zap.Logger) *Coordinator {
	if workers < 1 {
		workers = 1
	}

	return &Coordinator{
		analyzer: analyzer,
		store:    store,
		sem:      semaphore.NewWeighted(int64(workers)),
		logger:   logger,
	}
}

// Schedule registers version as the newest requested analysis of uri.
// It fails with ErrStaleVersion if a newer version was already scheduled.
func (c *Coordinator) Schedule(uri protocol.DocumentURI, version int32) (Ticket, error) {
	ticket, ok := c.store.Begin(uri, version)
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %s@%d", ErrStaleVersion, uri, version)
	}

	return ticket, nil
}

// Run analyzes text for a scheduled ticket and publishes the snapshot. It
// blocks while all analysis slots are taken.
func (c *Coordinator) Run(ctx context.Context, ticket Ticket, text string) (*Snapshot, error) {
	file, err := c.analyze(ctx, ticket.URI, text)
	if err != nil {
		return nil, err
	}

	snap, ok := c.store.Put(ticket, file)
	if !ok {
		c.logger.Debug("Dropping stale analysis",
			zap.String("uri", string(ticket.URI)),
			zap.Int32("version", ticket.Version))

		return nil, fmt.Errorf("%w: %s@%d", ErrStaleVersion, ticket.URI, ticket.Version)
	}

	c.logger.Debug("Published snapshot",
		zap.String("uri", string(ticket.URI)),
		zap.Int32("version", ticket.Version),
		zap.Bool("typed", snap.Typed()),
		zap.Int("diagnostics", len(file.Diagnostics)))

	return snap, nil
}

// Update schedules and runs an analysis of text as version of uri.
func (c *Coordinator) Update(ctx context.Context, uri protocol.DocumentURI, version int32, text string) (*Snapshot, error) {
	ticket, err := c.Schedule(uri, version)
	if err != nil {
		return nil, err
	}

	return c.Run(ctx, ticket, text)
}

func (c *Coordinator) analyze(ctx context.Context, uri protocol.DocumentURI, text string) (*analysis.AnalyzedFile, error) {
	err := c.sem.Acquire(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("waiting for analysis slot: %w", err)
	}
	defer c.sem.Release(1)

	return c.analyzer.Analyze(URIToPath(uri), text), nil
}

// Close evicts uri.
func (c *Coordinator) Close(uri protocol.DocumentURI) {
	c.store.Delete(uri)
}
