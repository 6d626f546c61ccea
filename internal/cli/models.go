package cli

import (
	"fmt"
	"io"
	"strings"

	"localai/internal/config"
	"localai/internal/ollama"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "models",
		Aliases: []string{"model"},
		Short:   "List the models installed on the Ollama server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelsList(cmd, a)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the models installed on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelsList(cmd, a)
		},
	})
	cmd.AddCommand(newModelsUseCmd(a))
	return cmd
}

func runModelsList(cmd *cobra.Command, a *app) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	cfg := client.Config()
	models, err := client.ListModels(cmd.Context())
	if err != nil {
		return withHint(err, cfg.BaseURL)
	}
	printModels(cmd.OutOrStdout(), models, cfg.Model)
	return nil
}

func printModels(out io.Writer, models []ollama.Model, current string) {
	if len(models) == 0 {
		fmt.Fprintln(out, "No models installed. Pull one with `ollama pull <name>`.")
		return
	}
	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)
	for _, model := range models {
		if isCurrentModel(model.Name, current) {
			green.Fprintf(out, "* %s\n", formatModelDetails(model))
			continue
		}
		fmt.Fprintf(out, "  %s\n", formatModelDetails(model))
	}
	if !containsModel(models, current) {
		dim.Fprintf(out, "configured model %q is not installed\n", current)
	}
}

// formatModelDetails renders a descriptor as "name (size) - Modified: date",
// leaving out parts the server did not report.
func formatModelDetails(model ollama.Model) string {
	var b strings.Builder
	b.WriteString(model.Name)
	if model.Size != nil {
		fmt.Fprintf(&b, " (%s)", humanize.IBytes(uint64(max(*model.Size, 0))))
	}
	if modified, ok := model.Modified(); ok {
		fmt.Fprintf(&b, " - Modified: %s", modified.Format("2006-01-02"))
	}
	return b.String()
}

// isCurrentModel treats "codellama" and "codellama:latest" as the same model.
func isCurrentModel(name, current string) bool {
	return normalizeModelName(name) == normalizeModelName(current)
}

func normalizeModelName(name string) string {
	name = strings.TrimSpace(name)
	if !strings.Contains(name, ":") {
		return name + ":latest"
	}
	return name
}

func containsModel(models []ollama.Model, name string) bool {
	for _, model := range models {
		if isCurrentModel(model.Name, name) {
			return true
		}
	}
	return false
}

type modelsUseOptions struct {
	Force bool
}

func newModelsUseCmd(a *app) *cobra.Command {
	opts := &modelsUseOptions{}
	cmd := &cobra.Command{
		Use:   "use NAME",
		Short: "Select the model used for completions and chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelsUse(cmd, a, opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.Force, "force", false, "select the model even if the server does not list it")
	return cmd
}

func runModelsUse(cmd *cobra.Command, a *app, opts *modelsUseOptions, name string) error {
	name = strings.TrimSpace(name)
	client, err := a.client()
	if err != nil {
		return err
	}
	cfg := client.Config()

	if !opts.Force {
		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return withHint(err, cfg.BaseURL)
		}
		if !containsModel(models, name) {
			return fmt.Errorf("model %q is not installed on %s (use --force to select it anyway)", name, cfg.BaseURL)
		}
	}

	if err := a.settings.Set(config.KeyModel, name); err != nil {
		return err
	}
	client.UpdateConfig(ollama.ConfigUpdate{Model: &name})
	a.logger.Debug("model selected", "model", client.Config().Model, "settings", a.settings.Path())

	fmt.Fprintf(cmd.OutOrStdout(), "Model switched to %s\n", name)
	return nil
}
