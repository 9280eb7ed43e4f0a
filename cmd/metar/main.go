// Command metar decodes METAR/SPECI reports.
//
// decode takes reports as arguments, or one per line on stdin, and prints
// the decoded structure as JSON. extract reads ACARS messages as JSONL (the
// NATS wrapper, flat messages, or dumpvdl2/dumphfdl logs) and prints the
// weather reports found in their text.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"metar_parser/internal/acars"
	"metar_parser/internal/metar"
	_ "metar_parser/internal/parsers" // register all parsers via init()
	"metar_parser/internal/parsers/weather"
	"metar_parser/internal/registry"
)

// DecodeOut is one decode result.
type DecodeOut struct {
	Input  string           `json:"input"`
	Report *metar.Report    `json:"report,omitempty"`
	Error  *weather.Failure `json:"error,omitempty"`
}

// ExtractOut is one message with its results.
type ExtractOut struct {
	Message *acars.Message          `json:"message"`
	Results []any                   `json:"results,omitempty"`
	Trace   []*registry.TraceResult `json:"trace,omitempty"`
}

type Stats struct {
	Lines        int
	ParsedNATS   int
	ParsedFlat   int
	ParsedNested int
	Skipped      int
	Matched      int
	Reports      int
	Failures     int
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "metar - commands:")
	fmt.Fprintln(w, "  decode   - decode reports given as arguments or on stdin")
	fmt.Fprintln(w, "  extract  - find and decode reports in ACARS JSONL")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  metar decode [-pretty] [-render] [REPORT ...]")
	fmt.Fprintln(w, "  metar extract -input messages.jsonl [-output out.json] [-pretty] [-trace] [-stats]")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "decode":
		os.Exit(runDecode(os.Args[2:], os.Stdin, os.Stdout, os.Stderr))
	case "extract":
		runExtract(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

// runDecode returns the process exit code: 0 when every report decoded,
// 1 when any failed, 2 on usage or I/O errors.
func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	render := fs.Bool("render", false, "Print the canonical report text instead of JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(stderr, "Input read error: %v\n", err)
			return 2
		}
	}

	failed := false
	out := make([]DecodeOut, 0, len(inputs))
	for _, in := range inputs {
		r, err := metar.Decode(in)
		if err != nil {
			failed = true
			f := weather.NewFailure(in, err)
			out = append(out, DecodeOut{Input: in, Error: &f})
			if *render {
				fmt.Fprintln(stderr, err)
			}
			continue
		}
		out = append(out, DecodeOut{Input: in, Report: r})
		if *render {
			fmt.Fprintln(stdout, r.String())
		}
	}

	if !*render {
		enc, err := marshalJSON(out, *pretty)
		if err != nil {
			fmt.Fprintf(stderr, "JSON encode error: %v\n", err)
			return 2
		}
		_, _ = stdout.Write(enc)
		_, _ = stdout.Write([]byte("\n"))
	}

	if failed {
		return 1
	}
	return 0
}

func runExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	inPath := fs.String("input", "", "Input JSONL file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	trace := fs.Bool("trace", false, "Include per-parser trace output")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	_ = fs.Parse(args)

	registry.Default().Sort()

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	out, st, err := extract(r, registry.Default(), *trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Input read error: %v\n", err)
		os.Exit(1)
	}

	var wout io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		wout = f
	}

	enc, err := marshalJSON(out, *pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}
	_, _ = wout.Write(enc)
	if wout == os.Stdout {
		_, _ = wout.Write([]byte("\n"))
	}

	if *showStats {
		fmt.Fprintf(os.Stderr,
			"stats: lines=%d parsed(nats=%d flat=%d nested=%d) skipped=%d matched=%d reports=%d failures=%d\n",
			st.Lines, st.ParsedNATS, st.ParsedFlat, st.ParsedNested, st.Skipped, st.Matched, st.Reports, st.Failures,
		)
	}
}

// extract reads JSONL from r and returns the messages holding at least one
// weather candidate. With trace set every recognised message is kept along
// with the trace of each traceable parser.
func extract(r io.Reader, reg *registry.Registry, trace bool) ([]ExtractOut, *Stats, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 60*1024*1024)

	out := make([]ExtractOut, 0, 1024)
	st := &Stats{}

	for scanner.Scan() {
		st.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		msg, format := acars.Decode([]byte(line))
		if msg == nil {
			st.Skipped++
			continue
		}
		switch format {
		case acars.FormatNATS:
			st.ParsedNATS++
		case acars.FormatFlat:
			st.ParsedFlat++
		case acars.FormatNested:
			st.ParsedNested++
		}

		results := reg.Dispatch(msg)
		item := ExtractOut{Message: msg}
		for _, res := range results {
			item.Results = append(item.Results, res)
			if wr, ok := res.(*weather.Result); ok {
				st.Reports += len(wr.Reports)
				st.Failures += len(wr.Failures)
			}
		}
		if len(results) > 0 {
			st.Matched++
		}
		if trace {
			for _, p := range reg.Parsers() {
				if tp, ok := p.(registry.Traceable); ok {
					item.Trace = append(item.Trace, tp.ParseWithTrace(msg))
				}
			}
		}
		if len(results) > 0 || trace {
			out = append(out, item)
		}
	}
	return out, st, scanner.Err()
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
