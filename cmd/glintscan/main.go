// Command glintscan is a debug driver for the scanner: it reads a file (or
// stdin) and prints one line per token. It never parses; nothing here
// builds a syntax tree.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/glint-lang/glint/internal/dialect"
	"github.com/glint-lang/glint/internal/diagnostic"
	"github.com/glint-lang/glint/internal/incremental"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/watch"
)

func main() {
	var (
		file        string
		dialectFlag string
		watchDir    string
	)

	flag.StringVar(&file, "file", "", "file to scan (default: stdin)")
	flag.StringVar(&dialectFlag, "dialect", "", "dialect version, e.g. 1.2.0 (default: base)")
	flag.StringVar(&watchDir, "watch", "", "watch a directory and re-dump tokens for files that change")
	flag.Parse()

	d, err := dialect.Parse(dialectFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glintscan: invalid dialect: %v\n", err)
		os.Exit(1)
	}

	if watchDir != "" {
		if err := runWatch(watchDir, d); err != nil {
			fmt.Fprintf(os.Stderr, "glintscan: %v\n", err)
			os.Exit(1)
		}

		return
	}

	buf, err := readInput(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glintscan: %v\n", err)
		os.Exit(1)
	}

	dumpTokens(os.Stdout, file, buf, d)
}

func readInput(file string) ([]byte, error) {
	if file == "" {
		return io.ReadAll(bufio.NewReader(os.Stdin))
	}

	return os.ReadFile(file)
}

// dumpTokens scans buf and writes "kind\tline\toffset\tlength\ttext" per
// token. Errors abort the dump after printing whatever was scanned so far,
// with the failure reported through internal/diagnostic.
func dumpTokens(w io.Writer, file string, buf []byte, d dialect.Dialect) {
	sc := lexer.NewWithDialect(buf, d)
	oracle := newHeuristicOracle()

	for {
		tok, err := sc.Next(oracle)
		if err != nil {
			pos := diagnostic.PositionFromOffset(buf, tok.Offset)
			fmt.Fprintln(os.Stderr, diagnostic.Format(file, pos, err.Error()))

			return
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%q\n", tok.Kind, tok.Line, tok.Offset, tok.Length, tok.Text(buf))
		oracle.record(tok.Kind)

		if tok.Kind == lexer.EOF {
			return
		}
	}
}

// heuristicOracle answers the division-vs-regexp question using the last
// non-comment token kind: a '/' following a value-producing token (LIT,
// NUMBER, STRING, REGEXP, CLOSE) is division, otherwise it opens a regexp.
// This is a convenience default for a debug CLI, not a spec requirement —
// a real embedder supplies its own oracle grounded in expression context.
type heuristicOracle struct {
	lastValue bool
}

func newHeuristicOracle() *heuristicOracle {
	return &heuristicOracle{}
}

func (o *heuristicOracle) record(k lexer.Kind) {
	if k == lexer.COMMENT {
		return
	}

	switch k {
	case lexer.LIT, lexer.NUMBER, lexer.STRING, lexer.REGEXP, lexer.CLOSE:
		o.lastValue = true
	default:
		o.lastValue = false
	}
}

func (o *heuristicOracle) Check() (lexer.OracleVerdict, error) {
	if o.lastValue {
		return lexer.ValuePresent, nil
	}

	return lexer.NoValue, nil
}

// runWatch dumps tokens for a .gl/.glint file under dir each time it is
// written or created; nothing is dumped before the first change arrives.
// Only files that change are scanned, through the incremental cache.
func runWatch(dir string, d dialect.Dialect) error {
	w, err := watch.New(dir)
	if err != nil {
		return err
	}
	defer w.Close()

	cache := incremental.NewWithDialect(d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "glintscan: watching %s (ctrl-c to stop)\n", dir)

	return w.Run(ctx, 100*time.Millisecond, func(ev watch.Event) {
		if ev.Op&(watch.OpWrite|watch.OpCreate) == 0 {
			return
		}

		buf, err := os.ReadFile(ev.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "glintscan: %v\n", err)

			return
		}

		cache.Invalidate(ev.Path)

		toks, err := cache.Tokens(ev.Path, buf, newHeuristicOracle())
		if err != nil {
			pos := diagnostic.PositionFromOffset(buf, len(buf))
			fmt.Fprintln(os.Stderr, diagnostic.Format(ev.Path, pos, err.Error()))
		}

		fmt.Fprintf(os.Stdout, "--- %s (%d tokens) ---\n", ev.Path, len(toks))

		for _, tok := range toks {
			fmt.Fprintf(os.Stdout, "%s\t%d\t%d\t%d\t%q\n", tok.Kind, tok.Line, tok.Offset, tok.Length, tok.Text(buf))
		}
	})
}
