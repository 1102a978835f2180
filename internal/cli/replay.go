package cli

import (
	"github.com/spf13/cobra"

	"surebet-scanner/internal/app"
)

var (
	replayFile    string
	replayDir     string
	replayPattern string
	replayWrite   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <sport>",
	Short: "Analyse captured page dumps offline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ReplayOptions{
			Sport:   args[0],
			File:    replayFile,
			Dir:     replayDir,
			Pattern: replayPattern,
			Write:   replayWrite,
		}
		return getApp().Replay(opts)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayFile, "file", "", "HTML or text dump to analyse")
	replayCmd.Flags().StringVar(&replayDir, "dir", "", "Directory of page dumps")
	replayCmd.Flags().StringVar(&replayPattern, "pattern", "index_*.txt", "Glob for dumps inside --dir")
	replayCmd.Flags().BoolVar(&replayWrite, "write", false, "Also write report files to the output directory")
}
