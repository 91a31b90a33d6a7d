package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gorelay"
	"github.com/ZaguanLabs/gorelay/internal/config"
	"github.com/ZaguanLabs/gorelay/internal/logging"
	"github.com/ZaguanLabs/gorelay/provider"
)

type translateFlags struct {
	envFile  string
	provider string
	langs    string
	json     bool
	dryRun   bool
}

func newTranslateCmd() *cobra.Command {
	var flags translateFlags

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text once and print a report",
		Long: `Translate Indonesian text into every target language (or the ones given
with --lang) and print the per-language results and statistics.

The text is read from the arguments, or from stdin when none are given.
--dry-run uses built-in mock providers and needs no API keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			preferred := gorelay.ProviderID(strings.ToLower(strings.TrimSpace(flags.provider)))
			switch preferred {
			case "", gorelay.ProviderOpenAI, gorelay.ProviderGemini:
			default:
				return fmt.Errorf("--provider must be openai or gemini")
			}

			relay, cleanup, err := translateRelay(cmd.Context(), flags, preferred, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := relay.Translate(cmd.Context(), gorelay.Request{
				Text:      text,
				Targets:   gorelay.SplitLanguageList(flags.langs),
				Preferred: preferred,
			})
			if err != nil {
				return err
			}

			if flags.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printReport(cmd.OutOrStdout(), result, gorelay.SplitLanguageList(flags.langs))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env", defaultEnvFile, "Path to the .env file")
	cmd.Flags().StringVar(&flags.provider, "provider", "", "Preferred provider: openai or gemini (default PREFERRED_PROVIDER)")
	cmd.Flags().StringVar(&flags.langs, "lang", "", "Comma-separated target languages (default en,zh,ja,ko)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output the result as JSON")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Use mock providers instead of calling the APIs")

	return cmd
}

// translateRelay builds the relay for one CLI run. The cleanup func flushes
// the response cache.
func translateRelay(ctx context.Context, flags translateFlags, preferred gorelay.ProviderID, stderr io.Writer) (*gorelay.Relay, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if flags.dryRun {
		if preferred == "" {
			preferred = gorelay.DefaultProvider
		}
		providers := []gorelay.Provider{
			provider.NewMockProvider(gorelay.ProviderOpenAI),
			provider.NewMockProvider(gorelay.ProviderGemini),
		}
		relay, err := newRelay(providers, preferred, 0, nil, zerolog.Nop())
		return relay, func() {}, err
	}

	if _, err := loadEnv(flags.envFile); err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if preferred == "" {
		preferred = cfg.Preferred()
	}

	logger, err := logging.NewWithWriter(stderr, cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	rc, err := openCache(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := rc.Close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("closing response cache failed")
		}
	}

	providers, err := buildProviders(ctx, cfg, rc, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	relay, err := newRelay(providers, preferred, cfg.TranslateConcurrency, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return relay, cleanup, nil
}

func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// printReport writes the human-readable result: original text, one block per
// language in request order, then statistics.
func printReport(w io.Writer, result *gorelay.AggregateResult, requested []string) {
	fmt.Fprintln(w, "Translation Results:")
	fmt.Fprintln(w, "-------------------")
	fmt.Fprintf(w, "Original: %s\n", result.Original.Text)

	for _, lang := range reportOrder(requested) {
		outcome, ok := result.Translations[lang]
		if !ok {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", gorelay.LanguageName(lang))
		if !outcome.Succeeded() {
			fmt.Fprintf(w, "Failed: %s\n", outcome.Error)
			continue
		}
		fmt.Fprintf(w, "Text: %s\n", outcome.Text)
		fmt.Fprintf(w, "Service: %s\n", outcome.Provider)
	}

	fmt.Fprintln(w, "\nStatistics:")
	fmt.Fprintln(w, "-------------------")
	fmt.Fprintf(w, "Successful: %d\n", result.Stats.Successful)
	fmt.Fprintf(w, "Failed: %d\n", result.Stats.Failed)
	fmt.Fprintf(w, "OpenAI used: %d\n", result.Stats.ProviderUsage[gorelay.ProviderOpenAI])
	fmt.Fprintf(w, "Gemini used: %d\n", result.Stats.ProviderUsage[gorelay.ProviderGemini])
}

func reportOrder(requested []string) []gorelay.Language {
	if len(requested) == 0 {
		return gorelay.TargetLanguages()
	}

	order := make([]gorelay.Language, 0, len(requested))
	seen := make(map[gorelay.Language]bool, len(requested))
	for _, code := range requested {
		lang := gorelay.Language(gorelay.NormalizeCode(code))
		if seen[lang] {
			continue
		}
		seen[lang] = true
		order = append(order, lang)
	}
	return order
}
