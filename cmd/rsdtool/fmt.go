package main

import (
	"fmt"

	"github.com/renderspud/rsd"
	"github.com/spf13/cobra"
)

var fmtCompact bool

func init() {
	cmd := newFmtCmd()
	cmd.Flags().BoolVar(&fmtCompact, "compact", false, "Render on a single line instead of indented")
	rootCmd.AddCommand(cmd)
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <file>",
		Short: "Reformat a document into its canonical textual form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			opts := rsd.SerializeOptions{Indent: "  "}
			if fmtCompact {
				opts.Indent = ""
			}

			fmt.Println(rsd.Serialize(doc.Root, opts))

			return nil
		},
	}
}
