package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcptools/mcp-gsuite/internal/devdocs"
	"github.com/mcptools/mcp-gsuite/internal/logging"
)

func newUpdateDocsCmd() *cobra.Command {
	var (
		manifestFile string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "update-docs",
		Short: "Download development reference documents",
		Long: `Download the development reference documents named in a docs.json
manifest into a local docs/ directory.

The manifest has the shape {"docs": [{"title": ..., "url": ...}]}; each
document is written to <output-dir>/<title>. Malformed entries are skipped
with a warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdateDocs(manifestFile, outputDir)
		},
	}

	cmd.Flags().StringVar(&manifestFile, "manifest", devdocs.DefaultManifest, "Path to the docs manifest")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", devdocs.DefaultOutputDir, "Directory to write documents to")

	return cmd
}

func runUpdateDocs(manifestFile, outputDir string) error {
	logger := logging.Setup(false)

	manifest, err := devdocs.LoadManifest(manifestFile)
	if err != nil {
		return err
	}

	updater := devdocs.NewUpdater(logger)
	updated, err := updater.Update(manifest, outputDir)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %d of %d documents in %s\n", updated, len(manifest.Docs), outputDir)
	return nil
}
