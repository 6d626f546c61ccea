package cli

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"localai/internal/codeanalysis"

	"github.com/spf13/cobra"
)

//go:embed complete_prompt.md
var completePromptFS embed.FS

const completePromptPath = "complete_prompt.md"

type completeOptions struct {
	InputFile string
	Language  string
	Line      int
	Column    int
	Stream    bool
	NoStream  bool
}

func newCompleteCmd(a *app) *cobra.Command {
	opts := &completeOptions{}
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Generate a completion for the code at a position in a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(cmd, a, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.InputFile, "file", "F", "", "source file, use -F- for stdin")
	cmd.Flags().StringVar(&opts.Language, "lang", "", "language of stdin input, e.g. go (sets the file extension)")
	cmd.Flags().IntVarP(&opts.Line, "line", "l", 0, "1-based cursor line (default: last line)")
	cmd.Flags().IntVarP(&opts.Column, "column", "c", 1, "1-based cursor column")
	cmd.Flags().BoolVar(&opts.Stream, "stream", false, "stream response")
	cmd.Flags().BoolVar(&opts.NoStream, "no-stream", false, "disable streaming response")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runComplete(cmd *cobra.Command, a *app, opts *completeOptions) error {
	if opts.Stream && opts.NoStream {
		return errors.New("only one of --stream or --no-stream can be set")
	}
	doc, err := readDocument(opts.InputFile, opts.Language, cmd.InOrStdin())
	if err != nil {
		return err
	}
	pos := cursorPosition(doc.Text, opts.Line, opts.Column)

	analyzer := codeanalysis.New()
	prompt, err := buildCompletePrompt(analyzer.Imports(doc), analyzer.Context(doc, pos))
	if err != nil {
		return err
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	baseURL := client.Config().BaseURL
	a.logger.Info("generating completion", "file", doc.Path, "line", pos.Line+1, "model", client.Config().Model)

	out := cmd.OutOrStdout()
	if opts.Stream {
		err = client.StreamCompletion(cmd.Context(), prompt, func(token string) error {
			_, writeErr := fmt.Fprint(out, token)
			return writeErr
		})
		if err != nil {
			return withHint(err, baseURL)
		}
		_, _ = fmt.Fprintln(out)
		return nil
	}

	completion, err := client.GenerateCompletion(cmd.Context(), prompt)
	if err != nil {
		return withHint(err, baseURL)
	}
	_, err = fmt.Fprintln(out, completion)
	return err
}

func readDocument(inputFile, language string, stdin io.Reader) (codeanalysis.Document, error) {
	if inputFile == "" {
		return codeanalysis.Document{}, errors.New("missing input: provide -F")
	}
	if inputFile == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return codeanalysis.Document{}, fmt.Errorf("read stdin: %w", err)
		}
		path := "stdin"
		if lang := strings.TrimPrefix(strings.TrimSpace(language), "."); lang != "" {
			path += "." + lang
		}
		return codeanalysis.Document{Path: path, Text: string(data)}, nil
	}
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return codeanalysis.Document{}, fmt.Errorf("read file: %w", err)
	}
	return codeanalysis.Document{Path: inputFile, Text: string(data)}, nil
}

// cursorPosition converts 1-based flags to a zero-based position. A
// non-positive line selects the last non-empty line.
func cursorPosition(text string, line, column int) codeanalysis.Position {
	if line <= 0 {
		lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
		line = len(lines)
	}
	if column <= 0 {
		column = 1
	}
	return codeanalysis.Position{Line: line - 1, Column: column - 1}
}

func buildCompletePrompt(imports, context string) (string, error) {
	data, err := completePromptFS.ReadFile(completePromptPath)
	if err != nil {
		return "", fmt.Errorf("read prompt template %s: %w", completePromptPath, err)
	}
	return renderCompletePrompt(strings.TrimSpace(string(data)), imports, context), nil
}

func renderCompletePrompt(template, imports, context string) string {
	replacer := strings.NewReplacer(
		"{{imports}}", imports,
		"{{context}}", context,
	)
	return replacer.Replace(template)
}
