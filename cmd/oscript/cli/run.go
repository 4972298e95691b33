package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/oscript-lang/oscript/internal/evaluator"
	"github.com/oscript-lang/oscript/internal/lexer"
	"github.com/oscript-lang/oscript/internal/parser"
	"github.com/oscript-lang/oscript/internal/trace"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run an O-script source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = runFile(args[0], tracePath)
			if exitCode != 0 {
				return &cliError{code: exitCode, err: fmt.Errorf("run failed")}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tracePath, "trace", "", "write the execution trace as JSON to this path")
	cmd.Flags().StringVar(&traceDBPath, "trace-db", "", "also mirror the execution trace into a SQLite database at this path")
	return cmd
}

var traceDBPath string

// runFile implements the non-interactive `oscript run` path: scan, parse,
// evaluate, optionally export the trace, and translate failures to the
// spec's exit codes (spec.md §6, §7).
func runFile(path string, traceOut string) int {
	start := time.Now()
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscript: cannot read %s: %v\n", path, err)
		return 70
	}

	cfg := loadConfig()
	dbPath := traceDBPath
	if dbPath == "" {
		dbPath = cfg.TraceSQLitePath
	}

	log := trace.NewLog()
	if dbPath != "" {
		sink, err := trace.OpenSQLiteSink(dbPath)
		if err != nil {
			klog.ErrorS(err, "failed to open sqlite trace sink")
		} else {
			defer sink.Close()
			log.AddSink(sink)
			klog.V(1).InfoS("mirroring trace to sqlite", "path", dbPath, "runID", sink.RunID())
		}
	}

	tokens, scanErr := lexer.ScanTokens(string(source))
	if scanErr != nil {
		fmt.Fprintln(os.Stderr, scanErr.Error())
		writeTraceIfRequested(log, traceOut)
		return 65
	}

	prog, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, parseErr.Error())
		writeTraceIfRequested(log, traceOut)
		return 65
	}

	ev := evaluator.New(log)
	ev.SetMaxHistory(cfg.MaxHistoryLength)

	runErr := ev.Run(prog)
	writeTraceIfRequested(log, traceOut)

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Inspect())
		return 65
	}

	klog.V(2).InfoS("run complete", "file", path, "started", humanize.Time(start))
	return 0
}

func writeTraceIfRequested(log *trace.Log, path string) {
	if path == "" {
		return
	}
	data, err := log.JSON()
	if err != nil {
		klog.ErrorS(err, "failed to marshal trace")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		klog.ErrorS(err, "failed to write trace file", "path", path)
	}
}
