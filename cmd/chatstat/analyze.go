package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Bishoy334/chat-analyser/internal/aggregate"
	"github.com/Bishoy334/chat-analyser/internal/config"
	"github.com/Bishoy334/chat-analyser/internal/export"
	"github.com/Bishoy334/chat-analyser/internal/identity"
	"github.com/Bishoy334/chat-analyser/internal/merge"
	"github.com/Bishoy334/chat-analyser/internal/metrics"
	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/parse"
	"github.com/Bishoy334/chat-analyser/internal/render"
	"github.com/Bishoy334/chat-analyser/internal/scan"
	"github.com/Bishoy334/chat-analyser/internal/tui"
)

// runStats counts pipeline outcomes for the closing log line.
type runStats struct {
	Scanned int
	Parsed  int
	Merged  int
	Failed  int
}

func (s runStats) String() string {
	return fmt.Sprintf("scanned=%d parsed=%d merged=%d failed=%d",
		s.Scanned, s.Parsed, s.Merged, s.Failed)
}

func analyzeCmd() *cobra.Command {
	var outputDir, owner string
	var assumeYes, verbose bool

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Parse every chat export under <dir> and write the analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if owner != "" {
				cfg.DeviceOwner = owner
			}

			analysis, stats, err := runPipeline(args[0], cfg, assumeYes, log)
			if err != nil {
				return err
			}

			full, lite, err := export.WriteAnalysis(cfg.OutputDir, analysis)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"full": full, "lite": lite}).Info("wrote analysis")
			log.Info(stats.String())

			render.Summary(os.Stdout, analysis)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for analysis JSON (default from config)")
	cmd.Flags().StringVar(&owner, "owner", "", "Device owner name for Android sent messages")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Never prompt; accept heuristic identity matches")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}

func runPipeline(root string, cfg *config.Config, assumeYes bool, log *logrus.Logger) (*aggregate.HierarchicalAnalysis, runStats, error) {
	var stats runStats

	candidates, err := scan.DiscoverChats(root)
	if err != nil {
		return nil, stats, fmt.Errorf("scan %s: %w", root, err)
	}
	stats.Scanned = len(candidates)

	var chats []*model.ParsedChat
	for _, c := range candidates {
		chat, err := parseCandidate(c)
		if err != nil {
			stats.Failed++
			log.WithField("path", c.Path).WithError(err).Error("parse failed, skipping file")
			continue
		}
		if len(chat.Messages) == 0 {
			log.WithField("path", c.Path).Debug("no messages, skipping file")
			continue
		}
		stats.Parsed++
		chats = append(chats, chat)
	}
	if len(chats) == 0 {
		return nil, stats, errors.New("no usable chat exports found")
	}

	chats = merge.Chats(chats)
	stats.Merged = len(chats)
	log.WithField("chats", len(chats)).Info("merged conversations")

	resolver := identity.NewResolver(pickPrompt(assumeYes, cfg), log)
	chats, err = resolver.Resolve(chats)
	if err != nil {
		return nil, stats, fmt.Errorf("identity resolution: %w", err)
	}

	mcfg := metrics.Config{
		SessionGap:    cfg.SessionGap(),
		EngagementGap: cfg.EngagementGap(),
		CountFullGap:  cfg.CountFullGap,
	}
	computed := make([]*metrics.Metrics, len(chats))
	for i, chat := range chats {
		computed[i] = metrics.Compute(chat, mcfg)
	}

	return aggregate.Build(chats, computed), stats, nil
}

func parseCandidate(c scan.Candidate) (*model.ParsedChat, error) {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	title := scan.TitleFor(c.Path)
	switch c.Platform {
	case model.PlatformWhatsApp:
		return parse.ParseWhatsApp(string(raw), title, time.Now)
	case model.PlatformInstagram:
		return parse.ParseInstagram(raw, title)
	case model.PlatformAndroid:
		return parse.ParseAndroid(raw, title)
	default:
		return nil, fmt.Errorf("unknown platform %q", c.Platform)
	}
}

func pickPrompt(assumeYes bool, cfg *config.Config) identity.Prompt {
	if assumeYes || !term.IsTerminal(int(os.Stdin.Fd())) {
		return identity.AutoPrompt{DeviceOwner: cfg.DeviceOwner}
	}
	return tui.NewPrompt(cfg.DeviceOwner)
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
