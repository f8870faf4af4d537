// sexpfmt reformats symbolic-expression files such as KiCad footprints.
//
//	sexpfmt [-style kicad] [-config sexpfmt.yaml] [-w | -check] [file ...]
//	sexpfmt -to json file
//	sexpfmt -repl
//
// Without files it reads stdin and writes stdout.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"go.mindeco.de/logging"

	sexp "github.com/alttpo/gsexp"
	"github.com/alttpo/gsexp/internal/config"
	"github.com/alttpo/gsexp/interop"
)

const (
	historyFile = ".sexpfmt_history"
	promptMain  = "sexp> "
	promptCont  = "....> "
)

var check = logging.CheckFatal

type options struct {
	style sexp.Style
	write bool
	check bool
	to    string
}

func main() {
	var (
		styleName  = flag.String("style", "", "layout: compact, pretty, kicad or rules (default from config)")
		configPath = flag.String("config", "", "YAML config file")
		write      = flag.Bool("w", false, "write result to the source file instead of stdout")
		checkOnly  = flag.Bool("check", false, "exit 1 if any file would change")
		to         = flag.String("to", "", "convert to json, cbor or msgpack instead of formatting")
		repl       = flag.Bool("repl", false, "read expressions interactively")
	)
	flag.Parse()

	logging.SetupLogging(nil)
	log := logging.Logger("sexpfmt")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		check(err)
	}
	name := cfg.Style
	if *styleName != "" {
		name = *styleName
	}
	style, err := config.StyleFor(name, cfg)
	check(err)

	opts := options{style: style, write: *write, check: *checkOnly, to: *to}

	if *repl {
		check(runRepl(os.Stdout, style))
		return
	}

	if flag.NArg() == 0 {
		if opts.write {
			check(errors.New("-w needs file arguments"))
		}
		ok, err := formatStdin(os.Stdin, os.Stdout, opts)
		check(err)
		if !ok {
			log.Log("event", "not formatted", "file", "<stdin>")
			os.Exit(1)
		}
		return
	}

	failed := false
	for _, path := range flag.Args() {
		changed, err := processFile(path, os.Stdout, opts)
		if err != nil {
			log.Log("event", "error", "file", path, "err", err)
			failed = true
			continue
		}
		if changed && opts.check {
			log.Log("event", "not formatted", "file", path)
			failed = true
		}
		if changed && opts.write {
			log.Log("event", "formatted", "file", path)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// render formats n, or converts it when opts.to is set.
func render(n *sexp.Node, opts options) ([]byte, error) {
	if opts.to != "" {
		h, err := interop.HandleFor(opts.to)
		if err != nil {
			return nil, err
		}
		return interop.Marshal(n, h)
	}

	var buf bytes.Buffer
	if err := sexp.Serialize(&buf, n, opts.style); err != nil {
		return nil, err
	}
	if !n.IsEmpty() {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// process reads one document from r and writes the result to w. changed
// reports whether the output differs from the input.
func process(r io.Reader, w io.Writer, opts options) (changed bool, err error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return false, errors.Wrap(err, "failed to read input")
	}
	n, err := sexp.ParseBytes(src)
	if err != nil {
		return false, err
	}
	out, err := render(n, opts)
	if err != nil {
		return false, err
	}

	changed = !bytes.Equal(src, out)
	if opts.check {
		return changed, nil
	}
	_, err = w.Write(out)
	return changed, errors.Wrap(err, "failed to write output")
}

// formatStdin processes r when no files are named. It reports false when
// -check finds the input unformatted.
func formatStdin(r io.Reader, w io.Writer, opts options) (bool, error) {
	changed, err := process(r, w, opts)
	if err != nil {
		return false, err
	}
	return !(changed && opts.check), nil
}

// processFile formats path. With opts.write the file is replaced when it
// changed, otherwise the result goes to w.
func processFile(path string, w io.Writer, opts options) (changed bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if !opts.write || opts.check {
		return process(f, w, opts)
	}

	var buf bytes.Buffer
	changed, err = process(f, &buf, opts)
	if err != nil || !changed {
		return changed, err
	}

	info, err := f.Stat()
	if err != nil {
		return changed, err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, buf.Bytes(), info.Mode().Perm()); err != nil {
		return changed, errors.Wrapf(err, "failed to write %s", tmp)
	}
	return changed, errors.Wrapf(os.Rename(tmp, path), "failed to replace %s", path)
}

func runRepl(out io.Writer, style sexp.Style) error {
	fmt.Fprintln(out, "sexpfmt: enter expressions, :quit to exit")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readByParseProbe(ln.Prompt, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(src) == ":quit" {
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		fmt.Fprintln(out, evalLine(src, style))
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// evalLine parses every expression in src and renders them one per line.
func evalLine(src string, style sexp.Style) string {
	nodes, err := sexp.ParseAll(src)
	if err != nil {
		return "error: " + err.Error()
	}
	lines := make([]string, len(nodes))
	for i, n := range nodes {
		lines[i] = sexp.Format(n, style)
	}
	return strings.Join(lines, "\n")
}

// readByParseProbe keeps prompting while the collected input ends inside an
// open list or quoted token.
func readByParseProbe(prompt func(string) (string, error), first, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := first
		if b.Len() > 0 {
			p = cont
		}
		line, err := prompt(p)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := sexp.ParseAll(src); errors.Is(perr, sexp.ErrEndOfFile) {
			continue
		}
		return src, true
	}
}
