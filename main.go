package main

import (
	"cockpitview/app"
	"cockpitview/config"
	"cockpitview/display"
	"cockpitview/inspect"
	"cockpitview/log"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goforj/godump"
	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"
	rootCmd = &cobra.Command{
		Use:   "cockpitview",
		Short: "cockpitview - preview how a fixed-resolution cockpit is fitted into any window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()
			return app.Run(ctx, app.Options{Config: cfg})
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset the stored cockpit display settings to their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			m, err := startManager(config.LoadConfig())
			if err != nil {
				return err
			}
			defer m.Stop()
			if err := m.Reset(); err != nil {
				return fmt.Errorf("failed to reset settings: %w", err)
			}
			fmt.Println("Display settings have been reset successfully")
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths and stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)

			if statePath, err := config.StatePath(); err == nil {
				fmt.Printf("State: %s\n", statePath)
			}

			m, err := startManager(cfg)
			if err != nil {
				return err
			}
			defer m.Stop()
			fmt.Printf("Settings: %s\n", filepath.Join(configDir, cfg.SettingsKey+".json"))
			godump.Fdump(os.Stdout, m.Settings())
			if st, ok := m.State(); ok {
				snap := inspect.NewSnapshot().WithDisplay(st, m.Surface().Vars(), m.Tolerance())
				fmt.Print(snap.ToText())
			}
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cockpitview",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cockpitview version %s\n", version)
		},
	}
)

// startManager builds a display manager over the default file store and
// starts it at the terminal's pixel size.
func startManager(cfg *config.Config) (*display.Manager, error) {
	store, err := config.DefaultFileStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	opts := display.OptionsFromConfig(cfg)
	opts.Store = store
	opts.Surface = display.NewSurface()
	m := display.NewManager(opts)

	w, h := terminalPixels(cfg)
	if err := m.Start(w, h); err != nil {
		log.WarningLog.Printf("stored settings partially applied: %v", err)
	}
	return m, nil
}

func init() {
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
