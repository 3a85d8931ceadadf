package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/boundary/classify"
	"github.com/wippyai/boundary/tagset"
)

type classifyOptions struct {
	Declared string
	Nullable bool
	Bytes    bool
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify <value>",
		Short: "Print the tag set of a value",
		Long: `Classify a YAML literal into its tag set.

A declared set is used for absent values and combined with the classified
set otherwise. Tags: ` + tagNames(),
		Example: `  boundary classify 3.14
  boundary classify '{a: 1}' --nullable
  boundary classify null --declared DOUBLE --nullable
  boundary classify --bytes 010203`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Declared, "declared", "", "declared tag set, e.g. DOUBLE")
	cmd.Flags().BoolVar(&opts.Nullable, "nullable", false, "mark the result NULLABLE")
	cmd.Flags().BoolVar(&opts.Bytes, "bytes", false, "read the value as hex bytes")

	return cmd
}

func runClassify(rootOpts *RootOptions, opts *classifyOptions, input string, cmd *cobra.Command) error {
	v, err := readInput(input, opts.Bytes)
	if err != nil {
		return err
	}
	declared, err := tagset.Parse(opts.Declared)
	if err != nil {
		return err
	}

	set, err := rootOpts.Marshaler().ClassifyRequest(classify.Request{
		Value:    v,
		Declared: declared,
		Nullable: opts.Nullable,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (0x%05x)\n", set, set.Bits())
	return nil
}

// readInput parses a value argument, either as a YAML literal or as hex
// bytes when asBytes is set.
func readInput(input string, asBytes bool) (any, error) {
	if asBytes {
		return parseBytes(input, "hex")
	}
	return parseLiteral(input)
}
