/*
Cpctplusi starts an interactive session for exploring the CPCT+ error
recovery search against the parenthesized-addition demo grammar shipped in
package exprgrammar.

Usage:

	cpctplusi [flags]

Each line of input is split on whitespace into token names (N, +, (, )) and
driven through the demo grammar with recovery enabled; the repair events
encountered along the way, and whether the input was ultimately accepted,
are printed to stdout. Type "QUIT" to exit.

The flags are:

	-v, --version
		Give the current version of cpctplusi and then exit.

	-d, --direct
		Force reading directly from the console instead of using GNU
		readline based routines, even if launched in a tty.

	-c, --config FILE
		Load search tuning (token costs, deadline, success threshold) from
		the given TOML file. If not given, built-in defaults are used.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dekarrin/cpctplus/config"
	"github.com/dekarrin/cpctplus/exprgrammar"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/internal/input"
	"github.com/dekarrin/cpctplus/internal/version"
	"github.com/dekarrin/cpctplus/recovery"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitSessionError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of cpctplusi and then exit.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force direct console reading instead of readline.")
	flagConfig  = pflag.StringP("config", "c", "", "Load search tuning from the given TOML file.")
)

type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

func main() {
	returnCode := ExitSuccess
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("cpctplusi (cpctplus v%s)\n", version.Current)
		return
	}

	cfg := config.Config{}.FillDefaults()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load config: %s\n", err)
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	tokenNames := map[string]grammar.TokenIdx{
		"N": exprgrammar.N, "+": exprgrammar.Plus, "(": exprgrammar.LPar, ")": exprgrammar.RPar,
	}
	g, table := exprgrammar.Build()

	var reader commandReader
	var err error
	if *flagDirect || !term.IsTerminal(int(os.Stdin.Fd())) {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		reader, err = input.NewInteractiveReader()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not start readline: %s\n", err)
			returnCode = ExitInitError
			return
		}
	}
	defer reader.Close()

	fmt.Println("cpctplusi: enter space-separated tokens from {N,+,(,)}, or QUIT to exit")

	for {
		line, err := reader.ReadCommand()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "read error: %s\n", err)
			returnCode = ExitSessionError
			return
		}

		if strings.EqualFold(line, "QUIT") {
			return
		}

		tokens, badTok, ok := lexLine(line, tokenNames)
		if !ok {
			fmt.Printf("unrecognized token %q\n", badTok)
			continue
		}

		view := &recovery.TokenStreamView{G: g, Table: table, Tokens: tokens, Cost: cfg.TokenCostFunc(g)}
		searcher := &recovery.Searcher{View: view, ParseAtLeast: cfg.ParseAtLeast, MaxFrontierNodes: cfg.MaxFrontierNodes}
		result := recovery.Drive(searcher, time.Now().Add(time.Duration(cfg.DeadlineMillis)*time.Millisecond), nil)

		printResult(g, view, result)
	}
}

func lexLine(line string, names map[string]grammar.TokenIdx) ([]grammar.TokenIdx, string, bool) {
	fields := strings.Fields(line)
	tokens := make([]grammar.TokenIdx, 0, len(fields))
	for _, f := range fields {
		t, ok := names[f]
		if !ok {
			return nil, f, false
		}
		tokens = append(tokens, t)
	}
	return tokens, "", true
}

// printResult reports the outcome of one recovery.Drive run, naming the
// lookahead token at each recovery point by its human display name and
// rendering every tied repair candidate as a rosed bordered table.
func printResult(g *grammar.Grammar, view *recovery.TokenStreamView, result recovery.DriveResult) {
	if result.Accepted {
		fmt.Println("accepted")
	} else {
		fmt.Println("not accepted (recovery exhausted)")
	}
	for _, ev := range result.Events {
		lookahead := g.TokenHuman(view.Lexeme(ev.Laidx).Token)
		if ev.Recovered {
			fmt.Printf("  at %d (lookahead %s): repaired with %v\n", ev.Laidx, lookahead, ev.Applied)
		} else {
			fmt.Printf("  at %d (lookahead %s): no repair found: %s\n", ev.Laidx, lookahead, ev.Err)
		}
		if len(ev.Candidates) > 0 {
			fmt.Println(candidateTable(ev.Candidates))
		}
	}
}

// candidateTable renders the ranked, tied repair candidates of one recovery
// event as a bordered table.
func candidateTable(candidates [][]recovery.ParseRepair) string {
	data := [][]string{{"Rank", "Repair"}}
	for i, cand := range candidates {
		steps := make([]string, len(cand))
		for j, r := range cand {
			steps[j] = r.String()
		}
		data = append(data, []string{strconv.Itoa(i + 1), strings.Join(steps, " -> ")})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}
