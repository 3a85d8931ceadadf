package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/boundary/tagset"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <tags>",
		Short: "Show the rule and native type chosen for a tag set",
		Example: `  boundary describe UINT8_TYPED_ARRAY,TYPED_ARRAY
  boundary describe DOUBLE+NULLABLE`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDescribe(rootOpts *RootOptions, tags string, cmd *cobra.Command) error {
	set, err := tagset.Parse(tags)
	if err != nil {
		return err
	}
	d, err := rootOpts.Marshaler().Describe(set)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "tags:  %s\n", d.Tags)
	fmt.Fprintf(w, "rule:  %s\n", d.Rule)
	fmt.Fprintf(w, "type:  %s\n", d.TypeName())
	fmt.Fprintf(w, "size:  %d\n", d.Size)
	fmt.Fprintf(w, "align: %d\n", d.Align)
	return nil
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rules",
		Short:         "List registered conversion rules in registration order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, cmd)
		},
	}

	return cmd
}

func runRules(rootOpts *RootOptions, cmd *cobra.Command) error {
	rules := rootOpts.Marshaler().Registry().Rules()

	nameWidth := len("NAME")
	for _, r := range rules {
		nameWidth = max(nameWidth, len(r.Name))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-*s  %-11s  %s\n", nameWidth, "NAME", "SPECIFICITY", "REQUIRES")
	fmt.Fprintln(w, strings.Repeat("-", nameWidth+2+11+2+8))
	for _, r := range rules {
		fmt.Fprintf(w, "%-*s  %-11d  %s\n", nameWidth, r.Name, r.Specificity(), r.Requires)
	}
	return nil
}
