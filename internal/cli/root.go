package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/inkwell/internal/config"
	"github.com/existflow/inkwell/internal/logger"
	"github.com/existflow/inkwell/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell - terminal client for your blog",
	Long: `Inkwell is a terminal client for the blogging platform: browse and
search posts, like and comment, manage your own posts, and keep local
drafts until they are ready to publish.

Run 'inkwell' without arguments to launch the interactive reader.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		if cfg.LogFile != "" {
			logConfig.FilePath = cfg.LogFile
		}
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Inkwell started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(app.Auth, app.Posts, app.Config.PageSize)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Inkwell exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(statsCmd)
}
