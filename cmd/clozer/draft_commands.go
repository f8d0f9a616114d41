package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/drafter"
	"github.com/pbaille/clozer/internal/fetcher"
	"github.com/pbaille/clozer/internal/pipeline"
)

func newDraftCommand(ctx *commandContext) *cobra.Command {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Create validated drafts",
	}

	draftCmd.AddCommand(newDraftAICommand(ctx))
	draftCmd.AddCommand(newDraftManualCommand(ctx))
	return draftCmd
}

func newDraftAICommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var level int
	var topic string
	var file string

	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Ask the language model for a passage and its keys",
		Long: "Drafts a new passage on --topic, or annotates the passage in --file.\n" +
			"Whatever the model returns is validated before it is stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLangFlag(langFlag)
			if err != nil {
				return err
			}
			req := drafter.Request{Lang: lang, Level: level, Topic: strings.TrimSpace(topic)}
			if file != "" {
				if req.Text, err = readText(cmd, file, nil); err != nil {
					return err
				}
			}

			return ctx.withService(cmd.Context(), true, func(svc *pipeline.Service) error {
				d, err := svc.CreateAIDraft(cmd.Context(), req)
				if err != nil {
					return err
				}
				return ctx.printCreated(cmd, d)
			})
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Passage language (en, ja, zh)")
	cmd.Flags().IntVar(&level, "level", 2, "CEFR level, 1 (A1) to 6 (C2)")
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Passage topic")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Annotate this passage instead of writing one")
	return cmd
}

func newDraftManualCommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var level int
	var title string
	var file string
	var rawURL string

	cmd := &cobra.Command{
		Use:   "manual [text|url]",
		Short: "Store a submitted passage with generated keys",
		Long: "Takes the passage inline, from --file, from --url, or on stdin. A single URL\n" +
			"argument is fetched like --url.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLangFlag(langFlag)
			if err != nil {
				return err
			}
			in := pipeline.ManualInput{Lang: lang, Level: level, Title: title, URL: strings.TrimSpace(rawURL)}
			if in.URL == "" && file == "" && len(args) == 1 && fetcher.IsURL(args[0]) {
				in.URL = args[0]
			}
			if in.URL == "" {
				if in.Text, err = readText(cmd, file, args); err != nil {
					return err
				}
			}

			return ctx.withService(cmd.Context(), false, func(svc *pipeline.Service) error {
				d, err := svc.CreateManualDraft(cmd.Context(), in)
				if err != nil {
					return err
				}
				return ctx.printCreated(cmd, d)
			})
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Passage language (en, ja, zh)")
	cmd.Flags().IntVar(&level, "level", 0, "CEFR level, 1 (A1) to 6 (C2)")
	cmd.Flags().StringVar(&title, "title", "", "Draft title")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the passage from a file (- for stdin)")
	cmd.Flags().StringVarP(&rawURL, "url", "u", "", "Fetch the passage from a web page")
	return cmd
}

func (c *commandContext) printCreated(cmd *cobra.Command, d *domain.Draft) error {
	if c.wantsJSON(cmd) {
		return writeJSON(cmd, d)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created draft: %s\n", shortID(d.ID))
	if d.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", d.Title)
	}
	fmt.Fprintf(out, "Text: %s\n", truncate(d.Text, 80))
	fmt.Fprintln(out, renderReport(d.Report))
	return nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), false, func(svc *pipeline.Service) error {
				drafts, err := svc.ListDrafts(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				if ctx.wantsJSON(cmd) {
					if drafts == nil {
						drafts = []domain.Draft{}
					}
					return writeJSON(cmd, drafts)
				}
				if len(drafts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No drafts yet. Use 'clozer draft' to create one.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderDraftList(drafts))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of drafts to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of drafts to skip")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a draft with its keys and cloze items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), false, func(svc *pipeline.Service) error {
				d, err := svc.GetDraft(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				if ctx.wantsJSON(cmd) {
					return writeJSON(cmd, d)
				}
				printDraft(cmd, d)
				return nil
			})
		},
	}
}

func newRevalidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revalidate [id]",
		Short: "Re-run validation over a stored draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), false, func(svc *pipeline.Service) error {
				d, err := svc.RevalidateDraft(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				if ctx.wantsJSON(cmd) {
					return writeJSON(cmd, d)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Revalidated draft: %s\n", shortID(d.ID))
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(d.Report))
				return nil
			})
		},
	}
}
