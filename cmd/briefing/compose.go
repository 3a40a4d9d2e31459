package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-briefing/pkg/form"
)

func newComposeCmd(a *app) *cobra.Command {
	var (
		input    string
		linkOnly bool
	)
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose the message from an answers file",
		Long: `Reads answers from a YAML or JSON file keyed by field name and prints the
composed message followed by the deep link.

Example:
  briefing compose --input answers.yaml
  cat answers.json | briefing compose --input - --link-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			state, err := form.LoadAnswers(data)
			if err != nil {
				return err
			}
			c := a.newComposer()
			message := c.Message(state)
			out := cmd.OutOrStdout()
			if !linkOnly {
				fmt.Fprintln(out, message)
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, c.Link(message))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "answers file, - for stdin")
	cmd.Flags().BoolVar(&linkOnly, "link-only", false, "print only the deep link")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return data, nil
}
