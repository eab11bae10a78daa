// Package lsp serves splice over the Language Server Protocol. Editors
// keep documents open with the server and ask it to merge a candidate
// version into one of them; the answer is a workspace edit made of the
// minimal text edits the merge produced.
package lsp

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/splice/edit"
	"github.com/dhamidi/splice/merge"
)

const lsName = "splice"

// CommandMerge is the workspace/executeCommand name for a merge. Its
// arguments are the URI of an open document and the candidate text.
const CommandMerge = "splice.merge"

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrBadArguments    = errors.New("bad command arguments")
	ErrUnknownDocument = errors.New("document is not open")
)

var log = commonlog.GetLogger("splice.lsp")

type Server struct {
	docs    *Documents
	policy  merge.Policy
	handler protocol.Handler
	server  *server.Server
	version string
}

func NewServer(version string, policy merge.Policy) *Server {
	s := &Server{
		docs:    NewDocuments(),
		policy:  policy,
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:              s.initialize,
		Initialized:             s.initialized,
		Shutdown:                s.shutdown,
		SetTrace:                s.setTrace,
		TextDocumentDidOpen:     s.textDocumentDidOpen,
		TextDocumentDidChange:   s.textDocumentDidChange,
		TextDocumentDidClose:    s.textDocumentDidClose,
		TextDocumentDidSave:     s.textDocumentDidSave,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) Documents() *Documents {
	return s.docs
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandMerge},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("initialized, policy %+v", s.policy)
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.docs.Update(string(params.TextDocument.URI), params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.docs.Update(string(params.TextDocument.URI), whole.Text)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.Close(string(params.TextDocument.URI))
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.docs.Update(string(params.TextDocument.URI), *params.Text)
	}
	return nil
}

func (s *Server) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != CommandMerge {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, params.Command)
	}
	we, err := s.Merge(context.Background(), params.Arguments)
	if err != nil {
		log.Errorf("%s: %s", CommandMerge, err)
		return nil, err
	}

	if ctx != nil && ctx.Call != nil && len(we.Changes) > 0 {
		go s.applyEdit(ctx.Call, *we)
	}
	return we, nil
}

// applyEdit asks the client to apply we. Requests are handled on the
// connection's read loop, so it must not run there: the reply could never
// be read.
func (s *Server) applyEdit(call glsp.CallFunc, we protocol.WorkspaceEdit) {
	label := CommandMerge
	var applied protocol.ApplyWorkspaceEditResponse
	call(protocol.ServerWorkspaceApplyEdit, protocol.ApplyWorkspaceEditParams{
		Label: &label,
		Edit:  we,
	}, &applied)
	if !applied.Applied {
		log.Noticef("client did not apply the merge edit")
	}
}

// Merge runs a splice.merge command: it merges the candidate text into
// the open document named by the first argument and returns the edits as
// a workspace edit. An unchanged document yields an edit with no changes.
func (s *Server) Merge(ctx context.Context, args []any) (*protocol.WorkspaceEdit, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: want [uri, candidate], got %d arguments", ErrBadArguments, len(args))
	}
	uri, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: uri is %T", ErrBadArguments, args[0])
	}
	candidate, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("%w: candidate is %T", ErrBadArguments, args[1])
	}

	base, ok := s.docs.Get(uri)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}

	name := uri
	if path, err := uriToPath(uri); err == nil {
		name = path
	}
	result, err := merge.Merge(ctx, []byte(base), []byte(candidate),
		merge.WithPolicy(s.policy),
		merge.WithNames(name, name+" (candidate)"),
	)
	if err != nil {
		return nil, err
	}

	we := &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{}}
	if result.Changed() {
		we.Changes[protocol.DocumentUri(uri)] = TextEdits([]byte(base), result.Edits)
	}
	return we, nil
}

// TextEdits converts byte-offset edits against src into LSP text edits.
func TextEdits(src []byte, edits []edit.Edit) []protocol.TextEdit {
	index := edit.NewLineIndex(src)
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{
			Range: protocol.Range{
				Start: toPosition(index.Position(e.Start)),
				End:   toPosition(index.Position(e.End)),
			},
			NewText: e.Text,
		})
	}
	return out
}

func toPosition(p edit.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line),
		Character: protocol.UInteger(p.Character),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
