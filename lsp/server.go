// Package lsp implements a Language Server Protocol server for nrs.
package lsp

import (
	"context"
	"errors"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
)

// Server implements the LSP Server interface for nrs.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Documents are shared by every coordinator the server builds, so a
	// config reload keeps open documents.
	store  *DocumentStore
	legend analysis.Legend

	// mu guards the settings below, which change when the workspace config
	// is loaded during initialize.
	mu          sync.RWMutex
	config      *nrs.Config
	coordinator *Coordinator

	// analyses tracks updates running off the dispatch loop.
	analyses sync.WaitGroup

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// NewServer creates a new LSP server. A nil config means defaults.
func NewServer(client protocol.Client, logger *zap.Logger, cfg *nrs.Config) *Server {
	if cfg == nil {
		cfg = nrs.DefaultConfig()
	}

	s := &Server{
		client: client,
		logger: logger,
		store:  NewDocumentStore(),
		legend: analysis.DefaultLegend(),
	}
	s.configure(cfg)

	return s
}

func (s *Server) configure(cfg *nrs.Config) {
	enc, ok := analysis.ParseEncoding(cfg.PositionEncoding)
	if !ok {
		s.logger.Warn("Unknown position encoding, using utf-16",
			zap.String("encoding", cfg.PositionEncoding))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg
	s.coordinator = NewCoordinator(analysis.NewAnalyzer(enc), s.store, cfg.AnalysisWorkers, s.logger)
}

func (s *Server) settings() (*nrs.Config, *Coordinator) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config, s.coordinator
}

// encoding returns the column unit of the active analyzer.
func (s *Server) encoding() analysis.Encoding {
	_, coord := s.settings()

	return coord.analyzer.Encoding()
}

// Config returns the active configuration.
func (s *Server) Config() *nrs.Config {
	cfg, _ := s.settings()

	return cfg
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("rootURI", string(params.RootURI)))

	// Extract workspace root from params
	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
	}

	if s.workspaceRoot != "" {
		s.loadWorkspaceConfig()
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			HoverProvider: true,
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semanticTokensLegend{
					TokenTypes:     s.legend.TokenTypes(),
					TokenModifiers: []string{},
				},
				Full:  true,
				Range: true,
			},
			// inlayHintProvider and positionEncoding have no field in this
			// protocol version; the JSON-RPC handler adds them to the response.
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "nrs-lsp",
			Version: "0.1.0",
		},
	}, nil
}

func (s *Server) loadWorkspaceConfig() {
	cfg, err := nrs.LoadConfig(s.workspaceRoot)

	switch {
	case errors.Is(err, nrs.ErrConfigNotFound):
		s.logger.Debug("No workspace config", zap.String("root", s.workspaceRoot))
	case err != nil:
		s.logger.Warn("Ignoring invalid workspace config", zap.Error(err))
	default:
		s.logger.Info("Loaded workspace config",
			zap.String("root", s.workspaceRoot),
			zap.String("encoding", cfg.PositionEncoding))
		s.configure(cfg)
	}
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true
	s.Wait()

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	return s.update(ctx, params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Info("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	// Full sync - take the last content change (should only be one with full sync)
	if len(params.ContentChanges) == 0 {
		return nil
	}

	text := params.ContentChanges[len(params.ContentChanges)-1].Text

	return s.update(ctx, params.TextDocument.URI, params.TextDocument.Version, text)
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	_, coord := s.settings()
	coord.Close(params.TextDocument.URI)

	// Clear diagnostics for closed document
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))
	// Full sync already delivered the saved text.
	return nil
}

// update schedules an analysis of a new document version and returns
// without waiting for it, so the dispatch loop keeps serving queries. The
// diagnostics are published once the analysis finishes, unless a newer
// version or a close superseded it. Stale versions are dropped silently.
func (s *Server) update(ctx context.Context, uri protocol.DocumentURI, version int32, text string) error {
	_, coord := s.settings()

	ticket, err := coord.Schedule(uri, version)
	if errors.Is(err, ErrStaleVersion) {
		s.logger.Debug("Skipped stale update", zap.String("uri", string(uri)), zap.Int32("version", version))

		return nil
	}

	if err != nil {
		return err
	}

	// The notification is answered before the analysis ends.
	ctx = context.WithoutCancel(ctx)

	s.analyses.Go(func() {
		snap, err := guard(s, "analyze", uri, func() (*Snapshot, error) {
			return coord.Run(ctx, ticket, text)
		})

		switch {
		case errors.Is(err, ErrStaleVersion):
			s.logger.Debug("Skipped stale update", zap.String("uri", string(uri)), zap.Int32("version", version))

			return
		case err != nil:
			s.logger.Error("Analysis failed",
				zap.String("uri", string(uri)),
				zap.Int32("version", version),
				zap.Error(err))

			return
		case snap == nil:
			return
		}

		// A close or newer version may have landed while this one finished.
		if !s.store.Current(snap) {
			return
		}

		s.publishDiagnostics(ctx, snap)
	})

	return nil
}

// Wait blocks until every scheduled analysis has finished and published its
// diagnostics.
func (s *Server) Wait() {
	s.analyses.Wait()
}

// snapshot returns the current snapshot of uri.
func (s *Server) snapshot(uri protocol.DocumentURI) (*Snapshot, bool) {
	return s.store.Get(uri)
}
