package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/greetcard/internal/card"
	"github.com/jask/greetcard/internal/config"
	"github.com/jask/greetcard/internal/dataset"
	"github.com/jask/greetcard/internal/logging"
	"github.com/jask/greetcard/internal/speech"
	"github.com/jask/greetcard/internal/tui"
)

var (
	configPath string
	dataPath   string
	stt        string
	autostart  bool
	mute       bool
	verbose    bool
	force      bool

	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "greetcard [url-or-query]",
	Short: "An interactive greeting card for the terminal",
	Long: `greetcard shows a personalised greeting card. Drag it with the mouse to
turn it over; it unfolds, speaks a welcome and shows a short message.

The card is chosen by "stt" (or "id") from a page URL or query string,
e.g. greetcard "https://example.com/card?stt=12", or with --stt.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
	RunE:              runCard,
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the speech voices and the one the card would use",
	Args:  cobra.NoArgs,
	RunE:  runVoices,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Print the dataset record a card id selects",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

var initConfigCmd = &cobra.Command{
	Use:               "init-config",
	Short:             "Write the default configuration file",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInitConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $GREETCARD_CONFIG or ~/.config/greetcard/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Dataset path or http(s) URL (overrides data.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.Flags().StringVar(&stt, "stt", "", "Card id (overrides the id in the URL)")
	rootCmd.Flags().BoolVar(&autostart, "autostart", false, "Skip the start prompt and unfold after the initial delay")
	rootCmd.Flags().BoolVar(&mute, "mute", false, "Do not speak")
	initConfigCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	logger, err = logging.New(cfg.Log.Path, cfg.Log.Level, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("path", config.Path(configPath)))
	return nil
}

func runCard(cmd *cobra.Command, args []string) error {
	var q card.Query
	if len(args) == 1 {
		q = card.ParseQuery(args[0])
	}
	if stt != "" {
		q.ID = stt
	}
	if autostart {
		cfg.Intro.Autostart = true
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session := card.NewSession(q, cfg.CardDefaults())
	deps := tui.Deps{
		Session: session,
		Source:  newSource(),
		Logger:  logger,
	}
	if n := newNarrator(); n != nil {
		deps.Narrator = n
	}
	logger.Info("card starting", zap.String("session", session.ID), zap.String("id", q.ID), zap.String("data", cfg.Data.Path))

	p := tea.NewProgram(tui.New(ctx, cfg, deps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run card: %w", err)
	}
	return nil
}

func runVoices(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	eng, err := speech.DetectEngine(cfg.Speech.Engine)
	if err != nil {
		logger.Warn("speech engine unavailable", zap.String("engine", cfg.Speech.Engine), zap.Error(err))
	}
	voices, err := eng.Voices(ctx)
	if err != nil {
		return fmt.Errorf("list voices: %w", err)
	}
	n := speech.NewNarrator(eng, cfg.SpeechOptions(), logger)
	if err := n.RefreshVoices(ctx); err != nil {
		return fmt.Errorf("select voice: %w", err)
	}
	chosen, rule, ok := n.Voice()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "engine: %s\n", eng.Name())
	for _, v := range voices {
		mark := " "
		if ok && v == chosen {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-32s %s\n", mark, v.Name, v.Lang)
	}
	if !ok {
		fmt.Fprintln(out, "no English voice available")
		return nil
	}
	fmt.Fprintf(out, "selected %q (%s)\n", chosen.Name, rule)
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if cfg.Data.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Data.Timeout)
		defer cancel()
	}
	rec, err := dataset.Load(ctx, newSource(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "name:    %s\n", rec.DisplayName)
	fmt.Fprintf(out, "code:    %s\n", rec.GiftCode)
	fmt.Fprintf(out, "message: %s\n", rec.Message)
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := config.Path(configPath)
	if err := config.WriteDefault(path, config.Default(), force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func newSource() dataset.Source {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return dataset.NewSource(cfg.Data.Path, wd, &http.Client{Timeout: cfg.Data.Timeout})
}

// newNarrator returns nil when speech is muted or disabled.
func newNarrator() *speech.Narrator {
	if mute || !cfg.Speech.Enabled {
		return nil
	}
	eng, err := speech.DetectEngine(cfg.Speech.Engine)
	if err != nil {
		logger.Warn("speech engine unavailable, card will be silent", zap.String("engine", cfg.Speech.Engine), zap.Error(err))
	} else {
		logger.Debug("speech engine", zap.String("engine", eng.Name()))
	}
	return speech.NewNarrator(eng, cfg.SpeechOptions(), logger.Named("speech"))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
