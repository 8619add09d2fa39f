package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tempo "github.com/goliatone/go-tempo"
	"github.com/goliatone/go-tempo/pkg/expander"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Inspect and exercise content-type scoped template sets",
	Long: `tempo loads template sets scoped to content types, merges them along
the configured content-type hierarchy, and expands them over text the way an
embedding editor would.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/tempo/config.yaml)")
	rootCmd.PersistentFlags().String("sets", "",
		"directory of template-set files applied on top of the embedded sets")
	_ = viper.BindPFlag("sets_dir", rootCmd.PersistentFlags().Lookup("sets"))
}

func initConfig() {
	viper.SetDefault("lookback", 64)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .tempo/config.yaml (current directory)
		// 2. ~/.config/tempo/config.yaml (user config)
		if _, err := os.Stat(".tempo/config.yaml"); err == nil {
			viper.SetConfigFile(".tempo/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "tempo"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Missing config files are fine; defaults plus flags cover everything.
	_ = viper.ReadInConfig()
}

// newExpander builds an expander from the effective configuration: the
// hierarchy map from config, the embedded sets, and any --sets directory
// layered on top.
func newExpander() (*expander.Expander, error) {
	hierarchy := tempo.MapHierarchy{}
	for child, parent := range viper.GetStringMapString("hierarchy") {
		hierarchy[tempo.ContentType(child)] = tempo.ContentType(parent)
	}

	exp := tempo.New(
		tempo.WithHierarchy(hierarchy),
		expander.WithLookback(viper.GetInt("lookback")),
	)

	if dir := viper.GetString("sets_dir"); dir != "" {
		if err := exp.LoadSets(os.DirFS(dir)); err != nil {
			return nil, err
		}
	}
	return exp, nil
}
