package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"verdandi/internal/api"
	"verdandi/internal/config"
	"verdandi/internal/ui"
)

var (
	cfgFile string
	apiURL  string
	debug   bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "verdandi",
	Short: "A terminal calendar for service professionals",
	Long: `Verdandi is a terminal scheduling calendar for service professionals:
appointments and personal time blocks on a drag-editable day/week grid,
rendered in the professional's own timezone wherever the terminal runs.`,
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Write a debug log to verdandi-debug.log")
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func initConfig() {
	var err error
	cfg, err = config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
}

func backendClient() *api.Client {
	return api.NewClient(cfg.APIURL, cfg.APIToken)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if debug {
		f, err := tea.LogToFile("verdandi-debug.log", "debug")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	}

	model := ui.NewModel(cfg, backendClient())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Edits to the config file land in the running UI.
	watcher, err := config.NewWatcher(configPath(), func(changed string) {
		reloaded, err := config.Load(changed)
		p.Send(ui.ConfigReloaded(reloaded, err))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config watching disabled: %v\n", err)
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
