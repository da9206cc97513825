package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPluralCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "plural WORD...",
		Short:   "Print the plural form of each word",
		Example: "  lappa-names plural person OrderItem user_status",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.cfg.Pluralizer()
			out := cmd.OutOrStdout()
			for _, word := range args {
				fmt.Fprintf(out, "%s\t%s\n", word, p.Pluralize(word))
			}
			return nil
		},
	}
}

func newTableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "table ENTITY...",
		Short:   "Print the table name derived for each entity name",
		Example: "  lappa-names table User OrderItem",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.cfg.Registry()
			out := cmd.OutOrStdout()
			for _, entity := range args {
				fmt.Fprintf(out, "%s\t%s\n", entity, r.DeriveTableName(entity))
			}
			return nil
		},
	}
}
