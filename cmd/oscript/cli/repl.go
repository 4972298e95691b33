package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/oscript-lang/oscript/internal/evaluator"
	"github.com/oscript-lang/oscript/internal/lexer"
	"github.com/oscript-lang/oscript/internal/parser"
	"github.com/oscript-lang/oscript/internal/trace"
)

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive O-script read-eval-print loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = runRepl(tracePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&tracePath, "trace", "", "write the execution trace as JSON to this path on exit")
	return cmd
}

// runRepl drives the REPL as two actors under an oklog/run group: one
// reading statements from stdin, one watching for SIGINT/SIGTERM so the
// trace sink is flushed before exit (spec.md §5: only `input` blocks).
func runRepl(traceOut string) int {
	cfg := loadConfig()
	log := trace.NewLog()
	ev := evaluator.New(log)
	ev.SetMaxHistory(cfg.MaxHistoryLength)

	prompt := "> "
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		prompt = ""
	}

	var g run.Group

	stop := make(chan struct{})

	g.Add(func() error {
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(os.Stdout, prompt)
			if !scanner.Scan() {
				return nil
			}
			line := scanner.Text()
			if line == "" {
				continue
			}
			evalREPLLine(ev, line)
		}
	}, func(error) {
		close(stop)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	g.Add(func() error {
		select {
		case <-sigCh:
			return nil
		case <-stop:
			return nil
		}
	}, func(error) {
		signal.Stop(sigCh)
	})

	if err := g.Run(); err != nil {
		klog.V(4).InfoS("repl exited", "reason", err)
	}

	writeTraceIfRequested(log, traceOut)
	return 0
}

func evalREPLLine(ev *evaluator.Evaluator, line string) {
	tokens, scanErr := lexer.ScanTokens(line)
	if scanErr != nil {
		fmt.Fprintln(os.Stderr, scanErr.Error())
		return
	}
	prog, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, parseErr.Error())
		return
	}
	if runErr := ev.Run(prog); runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Inspect())
	}
}
