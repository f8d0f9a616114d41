package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/clozer/internal/api"
	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/keys"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var file string
	var validated bool

	cmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate answer-key and cloze candidates for a passage",
		Long: "Runs the rule-based generators over a passage given inline, with --file, or on stdin.\n" +
			"Candidates are printed raw unless --validate is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLangFlag(langFlag)
			if err != nil {
				return err
			}
			text, err := readText(cmd, file, args)
			if err != nil {
				return err
			}

			if validated {
				res, err := keys.Build(cmd.Context(), text, lang, ctx.validator())
				if err != nil {
					return err
				}
				return writeJSON(cmd, res)
			}
			cands, err := keys.Generate(cmd.Context(), text, lang, ctx.validator().Segmenter())
			if err != nil {
				return err
			}
			return writeJSON(cmd, cands)
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Passage language (en, ja, zh)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the passage from a file (- for stdin)")
	cmd.Flags().BoolVar(&validated, "validate", false, "Validate the candidates before printing")
	return cmd
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var file string
	var report bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Clean candidate keys and cloze items against their passage",
		Long: "Reads a JSON document {lang, text, keys, cloze_short, cloze_long} from --file or stdin\n" +
			"and prints the cleaned result. Nothing is repaired: invalid entries are dropped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readText(cmd, file, nil)
			if err != nil {
				return err
			}
			var req api.ValidateRequest
			if err := json.Unmarshal([]byte(raw), &req); err != nil {
				return fmt.Errorf("parse candidates: %w", err)
			}
			if strings.TrimSpace(langFlag) != "" {
				req.Lang = langFlag
			}
			if req.Keys == nil {
				return errors.New("input has no keys object")
			}
			lang, err := parseLangFlag(req.Lang)
			if err != nil {
				return err
			}

			res, err := ctx.validator().Validate(req.Text, lang, domain.Candidates{
				Keys:       *req.Keys,
				ClozeShort: req.ClozeShort,
				ClozeLong:  req.ClozeLong,
			})
			if err != nil {
				return err
			}
			if report {
				fmt.Fprintln(cmd.ErrOrStderr(), renderReport(res.Report))
			}
			return writeJSON(cmd, res)
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Override the document language")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Candidate JSON file (- or empty for stdin)")
	cmd.Flags().BoolVar(&report, "report", false, "Print the validator report table to stderr")
	return cmd
}
