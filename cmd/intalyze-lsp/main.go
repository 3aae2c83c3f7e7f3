package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/intalyze/intalyze/internal/analyze"
	"github.com/intalyze/intalyze/internal/lsp"
)

const lsName = "intalyze"

var version = "0.1.0"

func main() {
	commonlog.Configure(1, nil)

	mode, err := analyze.ParseReductionMode(modeFromArgs())
	if err != nil {
		log.Fatalf("intalyze-lsp: %s", err)
	}

	h := lsp.NewHandler(mode)

	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("intalyze-lsp: starting (stdio)")
	if err := s.RunStdio(); err != nil {
		log.Println("intalyze-lsp: server error:", err)
		os.Exit(1)
	}
}

// modeFromArgs reads an optional "--reduction=<mode>" flag off os.Args,
// defaulting to the empty string (analyze.ParseReductionMode's "none").
func modeFromArgs() string {
	const prefix = "--reduction="
	for _, a := range os.Args[1:] {
		if len(a) > len(prefix) && a[:len(prefix)] == prefix {
			return a[len(prefix):]
		}
	}
	return ""
}
