package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	tempo "github.com/goliatone/go-tempo"
	"github.com/goliatone/go-tempo/internal/linebuffer"
)

var (
	expandType   string
	expandRegion string
	expandBefore string
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Run one dispatch over sample text",
	Long: `Simulate the expansion command an editor would bind: with --region the
selected text is completed through an interactive prompt over the active
tags; with --before the text is treated as preceding the cursor and a
trailing tag expands in place. When neither applies, the dispatch passes
through and a literal tab is inserted.

Examples:
  tempo expand --type c --region 'count > 3'
  tempo expand --type go --before 'x := 1;iferr'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if expandRegion != "" && expandBefore != "" {
			return fmt.Errorf("--region and --before are mutually exclusive")
		}

		exp, err := newExpander()
		if err != nil {
			return err
		}

		var buffer *linebuffer.Buffer
		if expandRegion != "" {
			buffer = linebuffer.New(expandRegion)
			if err := buffer.Select(0, len([]rune(expandRegion))); err != nil {
				return err
			}
		} else {
			buffer = linebuffer.New(expandBefore)
		}

		sess := exp.NewSession(buffer, tempo.WithFallback(func(ctx context.Context) error {
			return buffer.InsertAtCursor("\t")
		}))
		if err := exp.Activate(sess, tempo.ContentType(expandType)); err != nil {
			return err
		}

		result, err := exp.Dispatch(cmd.Context(), sess)
		if err != nil {
			return err
		}

		fmt.Printf("outcome: %s\n", result.Outcome)
		if result.Outcome == tempo.OutcomeExpanded {
			fmt.Printf("template: %s\n", result.QualifiedName)
		}
		fmt.Printf("buffer:\n%s\n", buffer.String())
		return nil
	},
}

func init() {
	expandCmd.Flags().StringVarP(&expandType, "type", "t", "", "content type for the session")
	expandCmd.Flags().StringVar(&expandRegion, "region", "", "text treated as the selected region")
	expandCmd.Flags().StringVar(&expandBefore, "before", "", "text treated as preceding the cursor")
	_ = expandCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(expandCmd)
}
