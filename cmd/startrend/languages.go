package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/startrend/internal/github"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List popular language names accepted by --language",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range github.PopularLanguages {
			fmt.Fprintln(cmd.OutOrStdout(), lang)
		}
	},
}
