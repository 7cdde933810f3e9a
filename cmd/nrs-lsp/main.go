// Command nrs-lsp is a Language Server Protocol server for nrs.
package main

import (
	"context"
	"errors"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/lsp"
)

func main() {
	cfg, err := nrs.LoadConfig(".")
	if errors.Is(err, nrs.ErrConfigNotFound) {
		cfg, err = nrs.DefaultConfig(), nil
	}

	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting nrs-lsp server",
		zap.String("encoding", cfg.PositionEncoding),
		zap.Int("workers", cfg.AnalysisWorkers))

	err = run(context.Background(), logger, cfg, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// newLogger logs to stderr; stdout is for LSP communication.
func newLogger(cfg *nrs.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(level)

	return config.Build()
}

func run(ctx context.Context, logger *zap.Logger, cfg *nrs.Config, in io.Reader, out io.Writer) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, logger)

	server := lsp.NewServer(client, logger, cfg)

	conn.Go(ctx, lsp.Handler(server))

	// Wait for the connection to close
	<-conn.Done()

	return conn.Err()
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
