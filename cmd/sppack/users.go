package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sppack/sppack/pkg/adapters/fixture"
)

var usersJSON bool

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Show the user catalog of the configured source",
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

		users := src.Users()
		if usersJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(users); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, u := range users {
			flags := ""
			if u.IsSiteAdmin {
				flags += " [admin]"
			}
			if u.IsDomainGroup {
				flags += " [group]"
			}
			fmt.Printf("%6d  %-25s %s%s\n", u.ID, u.Name, u.Login, flags)
		}
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().BoolVar(&usersJSON, "json", false, "Output in JSON format")
}
