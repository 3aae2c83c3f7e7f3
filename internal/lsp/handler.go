package lsp

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/intalyze/intalyze/internal/analyze"
	"github.com/intalyze/intalyze/internal/combined"
)

// Handler implements the LSP server handlers for the program-source
// language: on open/change it reparses, re-checks the AST contract,
// re-runs the fixpoint solver, and republishes one diagnostic per
// unprovable assertion plus one per unused-variable warning. No
// completion, hover, or semantic tokens — this is a diagnostics-only
// server.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string

	mode combined.ReductionMode
}

// NewHandler creates a Handler. mode selects the combined domain's
// reduction strategy used for every analysis run.
func NewHandler(mode combined.ReductionMode) *Handler {
	return &Handler{
		content: make(map[string]string),
		mode:    mode,
	}
}

// Initialize responds to the client's initialize request and advertises
// the server's (deliberately narrow) capabilities.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("intalyze-lsp: initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("intalyze-lsp: initialized")
	return nil
}

// Shutdown handles the LSP shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("intalyze-lsp: shutdown")
	return nil
}

// TextDocumentDidOpen analyzes a freshly opened document.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.analyzeAndPublish(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

// TextDocumentDidChange re-analyzes a document on every full-text change.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("intalyze-lsp: expected a full-document change event")
	}
	h.analyzeAndPublish(ctx, params.TextDocument.URI, change.Text)
	return nil
}

// TextDocumentDidClose drops the cached content for a closed document.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

// analyzeAndPublish runs the full pipeline over text and republishes its
// diagnostics for uri, replacing whatever was previously published.
func (h *Handler) analyzeAndPublish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	path, err := uriToPath(uri)
	if err != nil {
		log.Printf("intalyze-lsp: %s\n", err)
		return
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	result, err := analyze.Run(path, text, h.mode)
	if err != nil {
		sendDiagnosticNotification(ctx, uri, diagnosticsForRunError(err))
		return
	}

	diagnostics := diagnosticsForUnprovedAssertions(result.Assertions)
	diagnostics = append(diagnostics, convertViolations(result.Warnings)...)
	sendDiagnosticNotification(ctx, uri, diagnostics)
}

// uriToPath converts an LSP document URI to a platform-local file path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
