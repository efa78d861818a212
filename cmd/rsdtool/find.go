package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newFindCmd())
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <file> <reference>",
		Short: "Look up a reference inside a document and print the matching value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			target, err := doc.FindString(args[1])
			if err != nil {
				return err
			}

			fmt.Println(target.String())

			return nil
		},
	}
}
