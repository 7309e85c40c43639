package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aaronwn/kele/site"
	"github.com/Aaronwn/kele/theme"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the whole site to static output",
	Long: `Build materializes every route from the content directory, renders each
page through the site templates, copies static assets, and writes the
sitemap and RSS feed. The output directory is regenerated from scratch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := os.DirFS(rootDir)
		reg, err := theme.Load(root, siteCfg.TemplateDir)
		if err != nil {
			return err
		}
		b := &site.Builder{Root: root, Config: siteCfg, Logger: logger, Theme: reg}
		return b.Build(outputPath())
	},
}

// outputPath resolves the configured output directory against the site root.
func outputPath() string {
	if filepath.IsAbs(siteCfg.OutputDir) {
		return siteCfg.OutputDir
	}
	return filepath.Join(rootDir, siteCfg.OutputDir)
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
