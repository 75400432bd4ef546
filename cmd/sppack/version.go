package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sppack/sppack"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sppack",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sppack version %s\n", strings.TrimSpace(sppack.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
