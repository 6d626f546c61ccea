package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type chatOptions struct {
	Prompt   string
	Stream   bool
	NoStream bool
}

func newChatCmd(a *app) *cobra.Command {
	opts := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat [prompt...]",
		Short: "Send a prompt to a model and print the reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Prompt, "prompt", "", "prompt content (read stdin if empty)")
	cmd.Flags().BoolVar(&opts.Stream, "stream", false, "stream response")
	cmd.Flags().BoolVar(&opts.NoStream, "no-stream", false, "disable streaming response")
	return cmd
}

func runChat(cmd *cobra.Command, a *app, opts *chatOptions, args []string) error {
	if opts.Stream && opts.NoStream {
		return errors.New("only one of --stream or --no-stream can be set")
	}

	prompt := strings.TrimSpace(opts.Prompt)
	if prompt == "" && len(args) > 0 {
		prompt = strings.TrimSpace(strings.Join(args, " "))
	}
	if prompt == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return errors.New("prompt is required")
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	cfg := client.Config()
	out := cmd.OutOrStdout()

	if opts.Stream {
		err = client.StreamCompletion(cmd.Context(), prompt, func(token string) error {
			_, writeErr := fmt.Fprint(out, token)
			return writeErr
		})
		if err != nil {
			return withHint(err, cfg.BaseURL)
		}
		_, _ = fmt.Fprintln(out)
		return nil
	}

	reply, err := client.Chat(cmd.Context(), prompt, cfg.Model)
	if err != nil {
		return withHint(err, cfg.BaseURL)
	}
	_, err = fmt.Fprintln(out, reply)
	return err
}
