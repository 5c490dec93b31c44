package main

import (
	"context"
	"fmt"
	"os"

	"github.com/blackcoderx/ferrapi/pkg/core"
	"github.com/blackcoderx/ferrapi/pkg/selector"
	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

const releaseRepo = "blackcoderx/ferrapi"

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update ferrapi to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if version == "dev" {
			fmt.Println("You are running a development build of ferrapi. Update is not supported.")
			return nil
		}

		current, err := semver.ParseTolerant(version)
		if err != nil {
			return fmt.Errorf("failed to parse current version %q: %w", version, err)
		}

		latest, found, err := selfupdate.DetectLatest(releaseRepo)
		if err != nil {
			return fmt.Errorf("failed to detect latest version: %w", err)
		}
		if !found || latest.Version.LTE(current) {
			fmt.Println("Current version is the latest")
			return nil
		}

		ok, err := confirmPrompt(cmd.Context(), fmt.Sprintf("Update to %s?", latest.Version))
		if err != nil || !ok {
			return err
		}

		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("could not locate executable path: %w", err)
		}
		if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
			return fmt.Errorf("failed to update binary: %w", err)
		}
		fmt.Println("Successfully updated to version", latest.Version)
		return nil
	},
}

// confirmPrompt asks a yes/no question with the same prompter the selector uses.
func confirmPrompt(ctx context.Context, title string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	prompter := selector.NewHuhPrompter(selector.WithAccessible(settings != nil && settings.Accessible))
	ok, err := prompter.Confirm(ctx, title)
	if core.IsAborted(err) {
		return false, nil
	}
	return ok, err
}
