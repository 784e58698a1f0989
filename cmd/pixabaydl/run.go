package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pixabaydl/pkg/auth"
	"pixabaydl/pkg/config"
	"pixabaydl/pkg/errors"
	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/pipeline"
	"pixabaydl/pkg/ui"
)

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("pixabaydl starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(cfg, ui.Default(), log)

	if runner.NeedsResolve() && cfg.Pixabay.APIKey == "" {
		cfg.Pixabay.APIKey = storedAPIKey()
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		if stderrors.Is(err, errors.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, "\nTo store a key for later runs, use 'pixabaydl auth login'.")
		}
		log.WithError(err).Error("Run failed")
		return err
	}

	log.WithFields(map[string]interface{}{
		"ids":        summary.IDs,
		"downloaded": summary.Fetch.Downloaded,
		"failed":     summary.Fetch.Failed,
		"skipped":    summary.Fetch.Skipped,
		"unresolved": summary.Fetch.Unresolved,
	}).Info("Run completed")
	return nil
}

// changedFlags collects only the flags the user set, so config files and
// the environment are not overridden by flag defaults
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	fs := cmd.Flags()

	for _, name := range []string{"image-ids-filepath", "image-urls-filepath", "download-dir", "pixabay-api-key", "log-level"} {
		if fs.Changed(name) {
			v, _ := fs.GetString(name)
			flags[name] = v
		}
	}
	for _, name := range []string{"update-image-urls", "skip-existing"} {
		if fs.Changed(name) {
			v, _ := fs.GetBool(name)
			flags[name] = v
		}
	}
	if fs.Changed("concurrency") {
		v, _ := fs.GetInt("concurrency")
		flags["concurrency"] = v
	}
	if fs.Changed("timeout") {
		v, _ := fs.GetDuration("timeout")
		flags["timeout"] = v
	}

	return flags
}

// storedAPIKey falls back to the credential stores for the selected profile
func storedAPIKey() string {
	manager, err := auth.NewManager()
	if err != nil {
		logger.WithError(err).Debug("Credential manager unavailable")
		return ""
	}
	return manager.APIKey(profile)
}
