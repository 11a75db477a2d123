package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/kses/profile"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <profile>",
		Short: "Validate a profile and print a summary",
		Long: `Load a built-in profile or profile file, validate it and print the allowed
tags, attributes and protocols.

Examples:
  kses check admin
  kses check ./site.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Resolve(args[0], profile.WithLogger(a.log))
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tags := make([]string, 0, len(p.AllowedTags))
			for tag := range p.AllowedTags {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				names := make([]string, 0, len(p.AllowedTags[tag]))
				for name, c := range p.AllowedTags[tag] {
					if !c.IsUnconstrained() {
						name += "*"
					}
					names = append(names, name)
				}
				sort.Strings(names)
				fmt.Fprintf(out, "%-12s %s\n", tag, strings.Join(names, " "))
			}
			fmt.Fprintf(out, "protocols    %s\n", strings.Join(p.AllowedProtocols, " "))
			return nil
		},
	}
}

func (a *app) newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range profile.Names() {
				p, _ := profile.Builtin(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %d tags\n", name, len(p.AllowedTags))
			}
		},
	}
}
