package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/credentials"
	"github.com/goliatone/go-payhooks/security"
	"github.com/goliatone/go-payhooks/webhooks"
	"github.com/spf13/cobra"
)

type signOptions struct {
	event    string
	body     string
	bodyFile string
	secret   string
}

func newSignCmd(root *rootOptions) *cobra.Command {
	opts := &signOptions{}
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the x-signature header for a webhook body",
		Long: `Computes base64(HMAC-SHA256(token, body)) the way the processor does,
using the token of the scope the event routes to. Without --body a minimal
{"event":{"name":...}} body is generated.

Examples:
  payhook sign --event invoice_paidInFull --body-file notification.json
  payhook sign --secret test --body '{"id":"test"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := opts.resolveBody()
			if err != nil {
				return err
			}
			secret := opts.secret
			if secret == "" {
				secret, err = opts.lookupSecret(cmd, root, body)
				if err != nil {
					return err
				}
			}
			signature, err := webhooks.Sign(secret, body)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, signature)
			if opts.body == "" && opts.bodyFile == "" {
				fmt.Fprintln(out, string(body))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.event, "event", "", "event name used to pick the credential scope")
	cmd.Flags().StringVar(&opts.body, "body", "", "raw request body")
	cmd.Flags().StringVar(&opts.bodyFile, "body-file", "", "read the raw request body from a file")
	cmd.Flags().StringVar(&opts.secret, "secret", "", "sign with this token instead of the configured one")
	return cmd
}

func (o *signOptions) resolveBody() ([]byte, error) {
	switch {
	case o.body != "" && o.bodyFile != "":
		return nil, fmt.Errorf("use either --body or --body-file")
	case o.body != "":
		return []byte(o.body), nil
	case o.bodyFile != "":
		data, err := os.ReadFile(o.bodyFile)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	case strings.TrimSpace(o.event) != "":
		doc := map[string]any{"event": map[string]any{"name": o.event}}
		return json.Marshal(doc)
	}
	return nil, fmt.Errorf("one of --body, --body-file or --event is required")
}

func (o *signOptions) lookupSecret(cmd *cobra.Command, root *rootOptions, body []byte) (string, error) {
	event := strings.TrimSpace(o.event)
	if event == "" {
		event = webhooks.ExtractEventName(body)
	}
	scope, ok := webhooks.ScopeForEvent(event)
	if !ok {
		return "", fmt.Errorf("event %q does not route to a credential", event)
	}
	cfg, err := root.loadConfig(cmd.Context(), core.Config{})
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	var opener credentials.Opener
	if key := strings.TrimSpace(cfg.Security.AppKey); key != "" {
		provider, err := security.NewAppKeySecretProviderFromString(key)
		if err != nil {
			return "", err
		}
		opener = provider
	}
	source := credentials.NewFileTokenSource(cfg.Processor.ConfigFile, cfg.Processor.Environment, opener)
	return source.Token(cmd.Context(), scope)
}
