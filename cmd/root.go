package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/config"
	"github.com/endorses/nekotop/internal/pkg/constants"
	"github.com/endorses/nekotop/internal/pkg/logger"
	"github.com/endorses/nekotop/internal/pkg/tui"
	"github.com/endorses/nekotop/internal/pkg/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "nekotop",
	Short: "nekotop watches your proxy core",
	Long: `nekotop is a terminal dashboard for a Clash-Meta-compatible proxy core:
live traffic, connections, proxies, rules and logs over the control API,
with proxy switching, latency testing and config editing built in.`,
	Version:      version.GetFullVersion(),
	RunE:         runDashboard,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/nekotop/config.yaml, then $HOME/.nekotop.yaml)")
	rootCmd.Flags().StringP("api", "a", "", "control API base URL (e.g. http://127.0.0.1:9090)")
	rootCmd.Flags().StringP("secret", "s", "", "control API secret")
	rootCmd.Flags().String("theme", "", "color theme (solarized, dracula)")
	rootCmd.Flags().String("log-file", "", "write structured logs to this file")
	rootCmd.Flags().String("log-level", "", "log level (silent, trace, debug, info, warning, error)")

	_ = viper.BindPFlag(config.KeyAPIURL, rootCmd.Flags().Lookup("api"))
	_ = viper.BindPFlag(config.KeyAPISecret, rootCmd.Flags().Lookup("secret"))
	_ = viper.BindPFlag(config.KeyTheme, rootCmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag(config.KeyLogFile, rootCmd.Flags().Lookup("log-file"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.Flags().Lookup("log-level"))

	rootCmd.Flags().BoolP("version", "V", false, "print version and exit")
	rootCmd.SetVersionTemplate("nekotop {{.Version}}\n")
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case xdgConfigPath() != "":
		viper.SetConfigFile(xdgConfigPath())
	default:
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".nekotop")
	}

	viper.SetEnvPrefix("NEKOTOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// xdgConfigPath returns the XDG config file when it exists. It takes
// precedence over the legacy $HOME/.nekotop.yaml location.
func xdgConfigPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(cfgDir, "nekotop", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if err := logger.Setup(cfg.LogFile, cfg.LogLevel); err != nil {
		return err
	}

	client, err := api.New(cfg.APIURL, cfg.APISecret)
	if err != nil {
		return err
	}

	// Fail fast on an unreachable core instead of opening an empty
	// dashboard that can only show a spinner.
	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	info, err := client.Connect(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("cannot reach control API at %s: %w", cfg.APIURL, err)
	}
	logger.Info("connected to core", "version", info.Version, "meta", info.Meta)

	model := tui.NewModel(client)
	program := tea.NewProgram(model, tea.WithAltScreen())
	model.BridgeRef().Attach(program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard terminated: %w", err)
	}
	return nil
}
