package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sppack/sppack/pkg/adapters/fixture"
)

var fieldsJSON bool

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show the field schema of the configured list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fatal("Error loading config", err)
		}

		src, err := fixture.Load(cfg.Source.Fixture)
		if err != nil {
			fatal("Error loading fixture", err)
		}

		defs, err := src.Fields(context.Background(), cfg.List)
		if err != nil {
			fatal("Error fetching fields", err)
		}

		if fieldsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(defs); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, def := range defs {
			flags := ""
			if def.Hidden {
				flags += " [hidden]"
			}
			if def.ReadOnly {
				flags += " [readonly]"
			}
			fmt.Printf("%-30s %s%s\n", def.InternalName, def.Type, flags)
		}
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().BoolVar(&fieldsJSON, "json", false, "Output in JSON format")
}
