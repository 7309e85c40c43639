package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aaronwn/kele/web"
)

var previewAddr string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve the built static output",
	Long: `Preview serves the output directory exactly as a static file host
would, with no rendering. Run "kele build" first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := outputPath()
		if fi, err := os.Stat(out); err != nil || !fi.IsDir() {
			return fmt.Errorf("no build output at %q, run \"kele build\" first", out)
		}
		logger.Info("preview server starting", "addr", previewAddr, "dir", out)
		return runServer(previewAddr, web.Stack(os.DirFS(out), logger))
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewAddr, "addr", "a", ":8080", "address to listen on")
	rootCmd.AddCommand(previewCmd)
}
