package lsp

import (
	"context"
	"fmt"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Methods served outside protocol.ServerHandler.
const (
	MethodInlayHint       = "textDocument/inlayHint"
	MethodCustomInlayHint = "custom/inlay_hint"
)

// initializeResult extends the protocol result with capabilities that
// go.lsp.dev/protocol v0.12.0 cannot express. positionEncoding tells the
// client which unit hover positions, ranges and token columns are counted in.
type initializeResult struct {
	Capabilities capabilities         `json:"capabilities"`
	ServerInfo   *protocol.ServerInfo `json:"serverInfo,omitempty"`
}

type capabilities struct {
	protocol.ServerCapabilities

	InlayHintProvider bool   `json:"inlayHintProvider,omitempty"`
	PositionEncoding  string `json:"positionEncoding,omitempty"`
}

// Handler returns the JSON-RPC handler for s. Inlay hint methods and
// initialize are served here; everything else goes to protocol.ServerHandler.
func Handler(s *Server) jsonrpc2.Handler {
	next := protocol.ServerHandler(s, jsonrpc2.MethodNotFoundHandler)

	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodInitialize:
			var params protocol.InitializeParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return s.replyParseError(ctx, reply, req.Method(), err)
			}

			res, err := s.Initialize(ctx, &params)
			if err != nil {
				return reply(ctx, nil, err)
			}

			return reply(ctx, &initializeResult{
				Capabilities: capabilities{
					ServerCapabilities: res.Capabilities,
					InlayHintProvider:  s.Config().HintsEnabled(),
					PositionEncoding:   s.encoding().String(),
				},
				ServerInfo: res.ServerInfo,
			}, nil)

		case MethodInlayHint:
			var params InlayHintParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return s.replyParseError(ctx, reply, req.Method(), err)
			}

			hints, err := s.InlayHint(ctx, &params)

			return reply(ctx, hints, err)

		case MethodCustomInlayHint:
			var params PathParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return s.replyParseError(ctx, reply, req.Method(), err)
			}

			hints, err := s.PathInlayHints(ctx, &params)

			return reply(ctx, hints, err)

		default:
			return next(ctx, reply, req)
		}
	}
}

func (s *Server) replyParseError(ctx context.Context, reply jsonrpc2.Replier, method string, err error) error {
	s.logger.Warn("Rejecting request params", zap.String("method", method), zap.Error(err))

	return reply(ctx, nil, fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err))
}
