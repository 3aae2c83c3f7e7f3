package lsp_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/intalyze/intalyze/internal/combined"
	"github.com/intalyze/intalyze/internal/lsp"
)

func TestInitializeAdvertisesFullSyncNoCompletion(t *testing.T) {
	h := lsp.NewHandler(combined.ReductionNone)
	result, err := h.Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	initResult, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, initResult.Capabilities.TextDocumentSync)

	sync, ok := initResult.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	require.Equal(t, protocol.TextDocumentSyncKindFull, *sync.Change)
	require.Nil(t, initResult.Capabilities.CompletionProvider)
}

func TestInitializedAndShutdownDontError(t *testing.T) {
	h := lsp.NewHandler(combined.ReductionNone)
	require.NoError(t, h.Initialized(&glsp.Context{}, &protocol.InitializedParams{}))
	require.NoError(t, h.Shutdown(&glsp.Context{}))
}

func TestDidCloseDropsCachedContentWithoutError(t *testing.T) {
	h := lsp.NewHandler(combined.ReductionNone)
	err := h.TextDocumentDidClose(&glsp.Context{}, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/does-not-matter.ia"},
	})
	require.NoError(t, err)
}

func TestDidChangeRejectsIncrementalEvents(t *testing.T) {
	h := lsp.NewHandler(combined.ReductionNone)
	err := h.TextDocumentDidChange(&glsp.Context{}, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///tmp/x.ia"},
		},
		ContentChanges: []interface{}{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{},
				Text:  "VAR X",
			},
		},
	})
	require.Error(t, err)
}

func TestDidChangeIgnoresEmptyContentChanges(t *testing.T) {
	h := lsp.NewHandler(combined.ReductionNone)
	err := h.TextDocumentDidChange(&glsp.Context{}, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{},
		ContentChanges: nil,
	})
	require.NoError(t, err)
}
