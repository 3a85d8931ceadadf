package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/boundary/tagset"
)

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "decode <bytes>",
		Short: "Decode native bytes into a value",
		Long: `Decode bytes in --format with the rule selected for --tags and print
the value as YAML.`,
		Example: `  boundary decode 1f85eb51b81e0940 --tags DOUBLE
  boundary decode 00 --tags DOUBLE,NULLABLE`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, tags, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&tags, "tags", "", "tag set the bytes were encoded under")
	_ = cmd.MarkFlagRequired("tags")

	return cmd
}

func runDecode(rootOpts *RootOptions, tags, input string, cmd *cobra.Command) error {
	set, err := tagset.Parse(tags)
	if err != nil {
		return err
	}
	data, err := parseBytes(input, rootOpts.ByteFormat())
	if err != nil {
		return err
	}

	v, err := rootOpts.Marshaler().Decode(data, set)
	if err != nil {
		return err
	}

	out, err := renderYAML(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
