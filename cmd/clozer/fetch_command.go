package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbaille/clozer/internal/fetcher"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "fetch [url]",
		Short:       "Print the readable text of a web page",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ctx.wantsJSON(cmd) {
				return writeJSON(cmd, page)
			}
			out := cmd.OutOrStdout()
			if page.Title != "" {
				fmt.Fprintf(out, "%s\n\n", page.Title)
			}
			fmt.Fprintln(out, page.Text)
			return nil
		},
	}
}
