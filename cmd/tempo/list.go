package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tempo "github.com/goliatone/go-tempo"
	"github.com/goliatone/go-tempo/internal/linebuffer"
)

var listType string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective template set for a content type",
	Long: `Resolve the hierarchy chain for a content type and print the merged
template set an activated session would see, with descendant definitions
overriding ancestor ones.

Examples:
  tempo list --type c
  tempo list --type c++ --sets ./my-sets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := newExpander()
		if err != nil {
			return err
		}

		sess := exp.NewSession(linebuffer.New(""))
		if err := exp.Activate(sess, tempo.ContentType(listType)); err != nil {
			return err
		}

		set := sess.ActiveSet()
		if set.Len() == 0 {
			fmt.Printf("no templates active for %q\n", listType)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tDEFINITION\tLABEL")
		for _, binding := range set.Bindings() {
			label := ""
			if def, ok := exp.Registry().Definition(binding.QualifiedName); ok {
				label = def.Label
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", binding.Tag, binding.QualifiedName, label)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "content type to resolve")
	_ = listCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(listCmd)
}
