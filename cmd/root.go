// Package cmd implements the kele command line interface.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Aaronwn/kele/site"
)

var (
	cfgFile string
	rootDir string
	verbose bool

	siteCfg site.Config
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kele",
	Short: "kele renders a markdown blog into a static website",
	Long: `kele takes a directory of markdown content with front matter and turns
it into a static website: articles under content/posts become dated blog
entries, every other markdown file becomes a page, and the static folder
is copied as-is. A development server renders the same content on the fly
while you write.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize()
	},
}

// Execute runs the CLI, exiting non-zero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error(err.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/kele.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "site root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initialize sets up logging and loads the site configuration. The config
// is established once here and treated as read-only afterwards.
func initialize() error {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var err error
	siteCfg, err = loadConfig(cfgFile, rootDir)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "root", rootDir, "title", siteCfg.Title, "baseURL", siteCfg.BaseURL)
	return nil
}

// loadConfig reads kele.yaml (or an explicit config file) over the
// conventional defaults. Settings can also come from KELE_* environment
// variables.
func loadConfig(file, root string) (site.Config, error) {
	cfg := site.DefaultConfig()

	v := viper.New()
	v.SetDefault("title", cfg.Title)
	v.SetDefault("description", cfg.Description)
	v.SetDefault("author", cfg.Author)
	v.SetDefault("baseURL", cfg.BaseURL)
	v.SetDefault("lang", cfg.Lang)
	v.SetDefault("contentDir", cfg.ContentDir)
	v.SetDefault("staticDir", cfg.StaticDir)
	v.SetDefault("templateDir", cfg.TemplateDir)
	v.SetDefault("outputDir", cfg.OutputDir)
	v.SetDefault("highlight", cfg.Highlight)
	v.SetDefault("feedSize", cfg.FeedSize)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(root)
		v.SetConfigName("kele")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("KELE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || (!errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist)) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		// no config file is fine; defaults and environment apply
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
