// Command oscript is the O-script command-line driver: run a source
// file, start a REPL, or inspect a previously exported trace
// (spec.md §6 "CLI").
package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/oscript-lang/oscript/cmd/oscript/cli"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(70)
		}
	}()

	os.Exit(cli.Execute())
}
