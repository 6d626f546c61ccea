package cli

import (
	"log/slog"
	"net/http"
	"strings"

	"localai/internal/config"
	locallog "localai/internal/log"
	"localai/internal/ollama"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Options struct {
	Config  string
	URL     string
	Model   string
	Verbose bool
	Quiet   bool
	NoColor bool
}

// app carries the state shared by all subcommands of one invocation.
type app struct {
	opts       *Options
	v          *viper.Viper
	settings   *config.Settings
	logger     *slog.Logger
	httpClient *http.Client
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{opts: &Options{}})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "localai",
		Short:         "localai - code completion and chat backed by a local Ollama server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.Config, "config", "", "config file (default: ./localai.yaml or ~/.config/localai/localai.yaml)")
	flags.StringVar(&a.opts.URL, "url", "", "override Ollama base url")
	flags.StringVar(&a.opts.Model, "model", "", "override model name")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.opts.Quiet, "quiet", "q", false, "suppress non-essential output")
	flags.BoolVar(&a.opts.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompleteCmd(a))
	root.AddCommand(newChatCmd(a))
	root.AddCommand(newModelsCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.logger = locallog.Setup(cmd.ErrOrStderr(), a.opts.Verbose, a.opts.Quiet)
	if a.opts.NoColor {
		color.NoColor = true
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		a.logger.Warn("failed to load .env", "error", err)
	}

	a.v = viper.New()
	if err := config.Read(a.v, a.opts.Config); err != nil {
		return err
	}
	a.settings = config.NewSettings(a.v, config.DefaultPath())
	a.logger.Debug("configuration loaded", "file", a.v.ConfigFileUsed())
	return nil
}

// client builds an Ollama client seeded from the settings, with the
// --url and --model flags taking precedence.
func (a *app) client() (*ollama.Client, error) {
	cfg, err := a.settings.Load()
	if err != nil {
		return nil, err
	}
	return ollama.NewClient(ollama.Config{
		BaseURL:    firstNonEmpty(a.opts.URL, cfg.OllamaURL),
		Model:      firstNonEmpty(a.opts.Model, cfg.Model),
		HTTPClient: a.httpClient,
		Logger:     a.logger,
	}), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
