package main

import (
	"fmt"

	"github.com/renderspud/rsd"
	"github.com/spf13/cobra"
)

var parseCheck bool

func init() {
	cmd := newParseCmd()
	cmd.Flags().BoolVar(&parseCheck, "check", false, "Fail instead of printing if the document doesn't fully resolve")
	rootCmd.AddCommand(cmd)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a document and print its resolved form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			reg := rsd.NewRegistry()

			if parseCheck {
				ok, err := rsd.AllValuesResolvable(doc.Root, reg)
				if err != nil {
					return err
				}

				if !ok {
					return fmt.Errorf("%s: not every value resolves", args[0])
				}
			}

			resolved, _, err := rsd.Resolve(doc.Root, reg)
			if err != nil {
				return err
			}

			fmt.Println(resolved.String())

			return nil
		},
	}
}
