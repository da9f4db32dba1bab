package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bishoy334/chat-analyser/internal/config"
	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Report configuration and what the scanner finds under dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			fmt.Println("Config:")
			fmt.Printf("  session gap:    %s\n", cfg.SessionGap())
			fmt.Printf("  engagement gap: %s\n", cfg.EngagementGap())
			fmt.Printf("  count full gap: %v\n", cfg.CountFullGap)
			fmt.Printf("  device owner:   %s\n", orNone(cfg.DeviceOwner))
			fmt.Printf("  output dir:     %s\n", cfg.OutputDir)

			if len(args) == 0 {
				return nil
			}
			root := args[0]
			if _, err := os.Stat(root); err != nil {
				return fmt.Errorf("input dir: %w", err)
			}

			files, err := scan.Discover(root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			counts := make(map[model.Platform]int)
			unrecognized := 0
			for _, path := range files {
				platform, ok := scan.Sniff(path)
				if !ok {
					unrecognized++
					continue
				}
				counts[platform]++
			}

			fmt.Printf("\nScan of %s:\n", root)
			fmt.Printf("  files:            %d\n", len(files))
			for _, p := range []model.Platform{model.PlatformWhatsApp, model.PlatformInstagram, model.PlatformAndroid} {
				fmt.Printf("  %-17s %d\n", string(p)+":", counts[p])
			}
			fmt.Printf("  unrecognized:     %d\n", unrecognized)
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
