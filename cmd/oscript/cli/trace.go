package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscript-lang/oscript/internal/object"
	"github.com/oscript-lang/oscript/internal/trace"
)

func newTraceCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trace",
		Short: "Inspect a previously exported O-script trace",
	}
	root.AddCommand(newTraceInspectCmd())
	return root
}

func newTraceInspectCmd() *cobra.Command {
	var object_ string
	var step int

	cmd := &cobra.Command{
		Use:   "inspect [trace.json]",
		Short: "Print the last event at or before a given step for an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadTraceFile(args[0])
			if err != nil {
				exitCode = 70
				return err
			}
			idx := trace.BuildIndex(events)

			if object_ == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Objects in trace:")
				for _, o := range idx.Objects() {
					fmt.Fprintln(cmd.OutOrStdout(), " ", o)
				}
				min, max := idx.StepRange()
				fmt.Fprintf(cmd.OutOrStdout(), "Step range: [%d, %d]\n", min, max)
				return nil
			}

			e := idx.LastEventLEQ(object_, step)
			if e == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No event for %s at or before step %d\n", object_, step)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		},
	}
	cmd.Flags().StringVar(&object_, "object", "", "object label, e.g. Counter#1")
	cmd.Flags().IntVar(&step, "step", 1<<31-1, "report the event in effect at or before this step")
	return cmd
}

func loadTraceFile(path string) ([]object.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace file: %w", err)
	}
	var events []object.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse trace file: %w", err)
	}
	return events, nil
}
