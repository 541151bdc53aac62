package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perlytiara/modsync/pkg/config"
	"github.com/perlytiara/modsync/pkg/launcher"
	"github.com/perlytiara/modsync/pkg/updater"
)

var (
	updateInstance string
	updateType     string
	updateVersion  string
)

func init() {
	updateCmd.Flags().StringVar(&updateInstance, "instance", "", "Path to the instance to update (required)")
	updateCmd.Flags().StringVar(&updateType, "type", "fabric", "Package type (fabric, neoforge, ...)")
	updateCmd.Flags().StringVar(&updateVersion, "version", "latest", "Release version, or \"latest\"")
	_ = updateCmd.MarkFlagRequired("instance")

	updateAllCmd.Flags().StringVar(&updateType, "type", "fabric", "Package type (fabric, neoforge, ...)")
	updateAllCmd.Flags().StringVar(&updateVersion, "version", "latest", "Release version, or \"latest\"")
}

func newUpdater() (*updater.Updater, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return updater.New(cfg), nil
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List every Minecraft instance found on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := newUpdater()
		if err != nil {
			return renderError(err)
		}
		report, err := u.Scan(cmd.Context())
		if err != nil {
			return renderError(err)
		}
		return renderScan(report)
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect <path>",
	Short: "Identify which launcher owns a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := launcher.DetectKind(args[0])
		if err != nil {
			return renderError(err)
		}
		fmt.Printf("%s (%s)\n", kind.DisplayName(), kind)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Sync one instance against a modpack release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := newUpdater()
		if err != nil {
			return renderError(err)
		}
		result, err := u.Update(cmd.Context(), updateInstance, updateType, updateVersion)
		if err != nil {
			return renderError(err)
		}
		return renderResults(result)
	},
}

var updateAllCmd = &cobra.Command{
	Use:   "update-all",
	Short: "Sync every matching instance against a modpack release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := newUpdater()
		if err != nil {
			return renderError(err)
		}
		results, err := u.UpdateAll(cmd.Context(), updateType, updateVersion)
		if err != nil {
			return renderError(err)
		}
		return renderResults(results...)
	},
}
