package main

import (
	"fmt"
	"os"

	"github.com/intalyze/intalyze/internal/analyze"
	"github.com/intalyze/intalyze/repl"
)

func main() {
	modeArg := ""
	if len(os.Args) > 1 {
		modeArg = os.Args[1]
	}

	mode, err := analyze.ParseReductionMode(modeArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("intalyze repl — enter a program, blank line to run it, Ctrl-D to exit")
	repl.Start(os.Stdin, os.Stdout, mode)
}
