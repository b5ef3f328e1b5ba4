package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aita/blockjoin/db"
	"github.com/aita/blockjoin/debug"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blockjoin",
	Short: "Relational operators over a block-based database file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := debug.ParseLevel(viper.GetString("debug"))
		if err != nil {
			return err
		}
		debug.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blockjoin.yaml)")
	flags.String("debug", "off", "debug level: off, low, middle or high")
	flags.Int("cache-size", db.DefaultOptions().CacheSize, "number of blocks kept in memory")
	flags.Int("extent-size", db.DefaultOptions().InitialExtentSize, "initial extent size in blocks")

	viper.BindPFlag("debug", flags.Lookup("debug"))
	viper.BindPFlag("cache_size", flags.Lookup("cache-size"))
	viper.BindPFlag("extent_size", flags.Lookup("extent-size"))

	for seg, g := range db.DefaultOptions().Growth {
		viper.SetDefault("growth."+seg.String(), g)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".blockjoin")
	}

	viper.SetEnvPrefix("blockjoin")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		debug.Printf(debug.Low, debug.FileMan, "using config file %s", viper.ConfigFileUsed())
	}
}

func options() db.Options {
	opts := db.DefaultOptions()
	opts.CacheSize = viper.GetInt("cache_size")
	opts.InitialExtentSize = viper.GetInt("extent_size")
	for seg := range opts.Growth {
		opts.Growth[seg] = viper.GetFloat64("growth." + seg.String())
	}
	return opts
}
