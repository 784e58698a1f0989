package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"pixabaydl/pkg/config"
	"pixabaydl/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	profile    string
	quiet      bool
)

// rootCmd resolves and downloads when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "pixabaydl",
	Short: "Batch downloader for Pixabay images",
	Long: `pixabaydl downloads full-size Pixabay images for a list of image ids.

It works in two phases:
  1. Resolve: every id is looked up through the Pixabay API and the
     download url is cached in the image urls file as "id,url" lines.
     Ids that cannot be resolved are written as "id,None".
  2. Download: every cached url is fetched into the download directory
     as {id}.jpg.

The resolve phase only runs when the urls file does not exist yet or
--update-image-urls is given. It needs a Pixabay API key, which can be
passed with --pixabay-api-key, set in PIXABAY_API_KEY, or stored with
'pixabaydl auth login'.`,
	Example: `  # Resolve and download the ids in pixabay_ids.txt
  pixabaydl --pixabay-api-key YOUR_KEY

  # Re-download from an existing urls file, no API key needed
  pixabaydl --image-urls-filepath urls.txt --download-dir photos

  # Refresh the urls file with 8 concurrent requests
  pixabaydl --update-image-urls --concurrency 8`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.SetQuiet(true)
		}
	},
	RunE: runDownload,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.pixabaydl.yaml or $HOME/.config/pixabaydl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "default", "stored credential profile")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.Flags().String("image-ids-filepath", config.DefaultImageIDsFilepath, "file of newline-delimited Pixabay image ids")
	rootCmd.Flags().String("image-urls-filepath", config.DefaultImageURLsFilepath, "cache file of \"id,url\" lines")
	rootCmd.Flags().String("download-dir", config.DefaultDownloadDir, "directory images are saved into")
	rootCmd.Flags().Bool("update-image-urls", false, "query the API even when the urls file exists")
	rootCmd.Flags().String("pixabay-api-key", "", "Pixabay API key")
	rootCmd.Flags().Int("concurrency", 0, "workers per phase (0 means one per image)")
	rootCmd.Flags().Duration("timeout", 0, "per-request timeout (0 means none)")
	rootCmd.Flags().Bool("skip-existing", false, "skip images already present in the download directory")

	rootCmd.SetVersionTemplate(`pixabaydl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
