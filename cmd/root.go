package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huanfeng/signcfg/internal/config"
	"github.com/huanfeng/signcfg/internal/errors"
	"github.com/huanfeng/signcfg/internal/i18n"
	"github.com/huanfeng/signcfg/pkg/models"
	"github.com/huanfeng/signcfg/pkg/utils"
)

var (
	cfgFile     string
	projectRoot string
	verbose     bool
	debug       bool
	logFile     string
	logFormat   string
	noColor     bool
	langFlag    string

	appConfig  *models.Config
	configUsed string
	appLogger  *utils.ConsoleLogger
)

var rootCmd = &cobra.Command{
	Use:   "signcfg",
	Short: "Resolve Android release signing credentials",
	Long: `signcfg reads key.properties, checks that the referenced keystore exists and
produces the signing configuration consumed by the Android packaging tool.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(cmd); err != nil {
			return err
		}

		cfg, used, err := config.Load(cfgFile)
		if err != nil {
			return errors.WrapError(err, errors.ErrorTypeConfiguration, errors.CodeConfigLoad,
				"failed to load configuration").
				WithSuggestion("Run 'signcfg doctor' to validate the configuration file")
		}
		if projectRoot != "" {
			cfg.Project.Root = projectRoot
		}
		appConfig = cfg
		configUsed = used

		if used != "" {
			appLogger.Debug("Using config file: %s", used)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			appLogger.Close()
		}
	},
}

func setupLogger(cmd *cobra.Command) error {
	level := utils.LogLevelInfo
	if verbose {
		level = utils.LogLevelDebug
	}
	if debug {
		level = utils.LogLevelDebug
	}

	logger, err := utils.InitGlobalLogger(&utils.LoggerConfig{
		Level:       level,
		Format:      utils.ParseLogFormat(logFormat),
		Output:      cmd.ErrOrStderr(),
		FilePath:    logFile,
		EnableColor: !noColor && os.Getenv("NO_COLOR") == "",
	})
	if err != nil {
		return err
	}
	appLogger = logger
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := i18n.Init(langFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "i18n init failed: %v\n", err)
	}
	applyCommandLocalization()

	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd, err)
		os.Exit(1)
	}
}

func printError(cmd *cobra.Command, err error) {
	var handler *errors.ErrorHandler
	if verbose || debug {
		handler = errors.NewErrorHandler(utils.GetGlobalLogger())
	} else {
		handler = errors.NewErrorHandler(nil)
	}

	signErr := handler.Handle(err)
	var typed *errors.SignError
	if stderrors.As(err, &typed) {
		fmt.Fprint(cmd.ErrOrStderr(), signErr.FormatDetailed())
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
}

// langFromArgs finds --lang before cobra parses flags, so that help output
// is already localized.
func langFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--lang" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--lang="):
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./signcfg.yaml)")
	flags.StringVarP(&projectRoot, "project-root", "C", "", "directory containing key.properties")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&debug, "debug", false, "enable debug output")
	flags.StringVar(&logFile, "log-file", "", "also write logs to this file")
	flags.StringVar(&logFormat, "log-format", "text", "log format: text, json or compact")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVar(&langFlag, "lang", "", "language for messages (en, zh)")
}
