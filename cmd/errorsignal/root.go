package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/emersonmde/errorsignal"
	"github.com/emersonmde/errorsignal/icons"
)

var (
	cfgFile string
	verbose bool

	appConfig errorsignal.Config
	logger    = zap.NewNop()
	v         = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "errorsignal",
	Short: "Error Signal, a personal blog",
	Long: `errorsignal serves the blog from a SQLite store, imports markdown posts
into it and exports the whole site as static files.

Settings come from ./config.yaml (or --config), overridden by
ERRORSIGNAL_* environment variables and flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return err
		}
		level := "info"
		if verbose {
			level = "debug"
		}
		l, err := errorsignal.NewLogger(level)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		logger = l
		if err := icons.Setup(icons.Options{}); err != nil && !errors.Is(err, icons.ErrAlreadyConfigured) {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path")
	rootCmd.PersistentFlags().String("metadata", "", "site metadata file")
	rootCmd.PersistentFlags().String("content", "", "markdown content directory")
	rootCmd.PersistentFlags().String("prefix", "", "path prefix the site is mounted under")

	mustBind("databasePath", "db")
	mustBind("metadataPath", "metadata")
	mustBind("contentDir", "content")
	mustBind("pathPrefix", "prefix")
}

func initializeConfig() error {
	d := errorsignal.DefaultConfig()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("pathPrefix", d.PathPrefix)
	v.SetDefault("owner", d.Owner)
	v.SetDefault("metadataPath", d.MetadataPath)
	v.SetDefault("databasePath", d.DatabasePath)
	v.SetDefault("contentDir", d.ContentDir)
	v.SetDefault("staticDir", d.StaticDir)
	v.SetDefault("avatarPath", d.AvatarPath)
	v.SetDefault("outputDir", d.OutputDir)
	v.SetDefault("analyticsDomain", d.AnalyticsDomain)
	v.SetDefault("adminPassword", "")
	v.SetDefault("sessionSecret", "")
	v.SetDefault("cookieSecure", false)
	v.SetDefault("postCacheTTL", d.PostCacheTTL)
	v.SetDefault("dev", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ERRORSIGNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// mustBind panics on a programming error: binding a flag that does not exist.
func mustBind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}
