package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/boundary/tagset"
)

type encodeOptions struct {
	Tags  string
	Bytes bool
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode <value>",
		Short: "Encode a value into native bytes",
		Long: `Encode a YAML literal with the rule selected for its tag set.

Without --tags the value is classified first. Output uses --format.`,
		Example: `  boundary encode 3.14
  boundary encode 7 --tags LONG
  boundary encode null --tags DOUBLE,NULLABLE
  boundary encode --bytes 010203 --tags UINT8_TYPED_ARRAY,TYPED_ARRAY`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tags, "tags", "", "tag set to encode under (default: classify)")
	cmd.Flags().BoolVar(&opts.Bytes, "bytes", false, "read the value as hex bytes")

	return cmd
}

func runEncode(rootOpts *RootOptions, opts *encodeOptions, input string, cmd *cobra.Command) error {
	v, err := readInput(input, opts.Bytes)
	if err != nil {
		return err
	}
	set, err := tagset.Parse(opts.Tags)
	if err != nil {
		return err
	}

	data, err := rootOpts.Marshaler().Encode(v, set)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatBytes(data, rootOpts.ByteFormat()))
	return nil
}
