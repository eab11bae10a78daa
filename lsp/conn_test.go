package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/splice/merge"
)

// serve connects s to one end of a pipe the way glsp's stream server
// does: every request runs on the connection's read loop.
func serve(t *testing.T, s *Server, stream net.Conn) {
	t.Helper()
	handler := jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		gctx := glsp.Context{
			Method: req.Method,
			Notify: func(method string, params any) {
				_ = conn.Notify(ctx, method, params)
			},
			Call: func(method string, params any, result any) {
				_ = conn.Call(ctx, method, params, result)
			},
		}
		if req.Params != nil {
			gctx.Params = *req.Params
		}
		r, _, _, err := s.handler.Handle(&gctx)
		return r, err
	})
	conn := jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(stream, jsonrpc2.VSCodeObjectCodec{}), handler)
	t.Cleanup(func() { conn.Close() })
}

func TestExecuteCommandOverConnection(t *testing.T) {
	serverEnd, clientEnd := net.Pipe()
	serve(t, NewServer("test", merge.DefaultPolicy()), serverEnd)

	applied := make(chan protocol.ApplyWorkspaceEditParams, 1)
	client := jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(clientEnd, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method != protocol.ServerWorkspaceApplyEdit {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound}
			}
			var params protocol.ApplyWorkspaceEditParams
			if err := json.Unmarshal(*req.Params, &params); err != nil {
				return nil, err
			}
			applied <- params
			return protocol.ApplyWorkspaceEditResponse{Applied: true}, nil
		}),
	)
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var initResult json.RawMessage
	require.NoError(t, client.Call(ctx, protocol.MethodInitialize, map[string]any{"capabilities": map[string]any{}}, &initResult))
	assert.Contains(t, string(initResult), CommandMerge)
	require.NoError(t, client.Notify(ctx, protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "java", Text: baseText},
	}))

	var we protocol.WorkspaceEdit
	require.NoError(t, client.Call(ctx, protocol.MethodWorkspaceExecuteCommand, protocol.ExecuteCommandParams{
		Command:   CommandMerge,
		Arguments: []any{testURI, candidateText},
	}, &we))
	edits := we.Changes[protocol.DocumentUri(testURI)]
	require.NotEmpty(t, edits)
	want, err := merge.Merge(ctx, []byte(baseText), []byte(candidateText))
	require.NoError(t, err)
	assert.Equal(t, string(want.Text), applyTextEdits(t, baseText, edits))

	select {
	case params := <-applied:
		require.NotNil(t, params.Label)
		assert.Equal(t, CommandMerge, *params.Label)
		assert.Equal(t, edits, params.Edit.Changes[protocol.DocumentUri(testURI)])
	case <-ctx.Done():
		t.Fatal("client was never asked to apply the edit")
	}
}
