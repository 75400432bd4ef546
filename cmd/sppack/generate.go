package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sppack/sppack"
	"github.com/sppack/sppack/pkg/adapters/archive"
)

var (
	outputDir     string
	outputArchive string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the migration package for the configured list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fatal("Error loading config", err)
		}

		// Flags win over the config file.
		dir := cfg.Output.Dir
		if outputDir != "" {
			dir = outputDir
		}
		archivePath := cfg.Output.Archive
		if outputArchive != "" {
			archivePath = outputArchive
		}
		if dir == "" && archivePath == "" {
			dir = "."
		}

		g, err := sppack.New(cfg.Source.Fixture, cfg.List,
			sppack.WithTarget(cfg.target()),
			sppack.WithSourceSiteURL(cfg.Source.SiteURL),
			sppack.WithRenameColumns(cfg.RenameColumns),
			sppack.WithExclusions(cfg.ExcludeFields),
			sppack.WithWorkers(cfg.Workers),
			sppack.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Error initializing generator", err)
		}

		pkg, err := g.Generate(context.Background())
		if err != nil {
			fatal("Error generating package", err)
		}

		writer := archive.NewWriter(slog.Default())
		if dir != "" {
			if err := writer.WriteDir(dir, pkg.Files); err != nil {
				fatal("Error writing package", err)
			}
			fmt.Printf("Wrote %d descriptors (%d bytes) to %s\n", len(pkg.Files), pkg.Size(), dir)
		}
		if archivePath != "" {
			if err := writer.WriteArchive(archivePath, pkg.Files); err != nil {
				fatal("Error writing archive", err)
			}
			fmt.Printf("Wrote archive %s\n", archivePath)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Directory to write descriptor files into")
	generateCmd.Flags().StringVar(&outputArchive, "archive", "", "Path to write a zip archive of the package")
}
