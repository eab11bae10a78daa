package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/splice/edit"
	"github.com/dhamidi/splice/merge"
)

const (
	testURI  = "file:///work/src/Calculator.java"
	baseText = `public class Calculator {
    public int add(int a, int b) {
        return a + b;
    }
}
`
	candidateText = `public class Calculator {
    public int add(int a, int b) {
        return b + a;
    }
    public int negate(int a) {
        return -a;
    }
}
`
)

func openServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer("test", merge.DefaultPolicy())
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "java", Text: baseText},
	}))
	return s
}

// applyTextEdits maps LSP edits back to byte offsets and applies them.
func applyTextEdits(t *testing.T, src string, edits []protocol.TextEdit) string {
	t.Helper()
	index := edit.NewLineIndex([]byte(src))
	var byteEdits []edit.Edit
	for _, e := range edits {
		start := index.Offset(edit.Position{Line: int(e.Range.Start.Line), Character: int(e.Range.Start.Character)})
		end := index.Offset(edit.Position{Line: int(e.Range.End.Line), Character: int(e.Range.End.Character)})
		byteEdits = append(byteEdits, edit.Replace(start, end, e.NewText))
	}
	out, err := edit.Apply([]byte(src), byteEdits)
	require.NoError(t, err)
	return string(out)
}

func TestMergeCommand(t *testing.T) {
	s := openServer(t)

	we, err := s.Merge(context.Background(), []any{testURI, candidateText})
	require.NoError(t, err)
	require.Contains(t, we.Changes, protocol.DocumentUri(testURI))

	want, err := merge.Merge(context.Background(), []byte(baseText), []byte(candidateText))
	require.NoError(t, err)
	got := applyTextEdits(t, baseText, we.Changes[protocol.DocumentUri(testURI)])
	assert.Equal(t, string(want.Text), got)
	assert.Contains(t, got, "return b + a;")
	assert.Contains(t, got, "public int negate(int a)")
}

func TestMergeCommandUnchanged(t *testing.T) {
	s := openServer(t)
	we, err := s.Merge(context.Background(), []any{testURI, baseText})
	require.NoError(t, err)
	assert.Empty(t, we.Changes)
}

func TestMergeCommandErrors(t *testing.T) {
	s := openServer(t)
	tests := []struct {
		name string
		args []any
		want error
	}{
		{"no arguments", nil, ErrBadArguments},
		{"uri not a string", []any{42, candidateText}, ErrBadArguments},
		{"candidate not a string", []any{testURI, []string{"x"}}, ErrBadArguments},
		{"unknown document", []any{"file:///other.java", candidateText}, ErrUnknownDocument},
		{"unparsable candidate", []any{testURI, "class {"}, merge.ErrParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Merge(context.Background(), tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecuteCommand(t *testing.T) {
	s := openServer(t)

	_, err := s.workspaceExecuteCommand(nil, &protocol.ExecuteCommandParams{Command: "splice.format"})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	result, err := s.workspaceExecuteCommand(nil, &protocol.ExecuteCommandParams{
		Command:   CommandMerge,
		Arguments: []any{testURI, candidateText},
	})
	require.NoError(t, err)
	we, ok := result.(*protocol.WorkspaceEdit)
	require.True(t, ok)
	assert.NotEmpty(t, we.Changes[protocol.DocumentUri(testURI)])
}

func TestDocumentLifecycle(t *testing.T) {
	s := openServer(t)
	assert.Equal(t, 1, s.Documents().Len())

	require.NoError(t, s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: candidateText}},
	}))
	text, ok := s.Documents().Get(testURI)
	require.True(t, ok)
	assert.Equal(t, candidateText, text)

	saved := "class Saved {}"
	require.NoError(t, s.textDocumentDidSave(nil, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Text:         &saved,
	}))
	text, _ = s.Documents().Get(testURI)
	assert.Equal(t, saved, text)

	require.NoError(t, s.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	_, ok = s.Documents().Get(testURI)
	assert.False(t, ok)
}

func TestInitializeAdvertisesMergeCommand(t *testing.T) {
	s := NewServer("1.2.3", merge.DefaultPolicy())
	result, err := s.initialize(nil, &protocol.InitializeParams{})
	require.NoError(t, err)

	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, init.Capabilities.ExecuteCommandProvider)
	assert.Equal(t, []string{CommandMerge}, init.Capabilities.ExecuteCommandProvider.Commands)
	assert.Equal(t, "splice", init.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *init.ServerInfo.Version)
}

func TestTextEditsUseUTF16Columns(t *testing.T) {
	src := []byte("// é𝄞\nx")
	edits := TextEdits(src, []edit.Edit{
		edit.Insert(len("// é𝄞"), "!"),
		edit.Replace(len(src)-1, len(src), "y"),
	})
	require.Len(t, edits, 2)
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, edits[0].Range.Start)
	assert.Equal(t, edits[0].Range.Start, edits[0].Range.End)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, edits[1].Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 1}, edits[1].Range.End)
	assert.Equal(t, "y", edits[1].NewText)
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///work/src/My%20File.java")
	require.NoError(t, err)
	assert.Equal(t, "/work/src/My File.java", path)

	path, err = uriToPath("untitled:Untitled-1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:Untitled-1", path)
}
