package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitbuilder587/bedtime-stories/internal/config"
	"github.com/kitbuilder587/bedtime-stories/internal/console"
	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/llm"
	"github.com/kitbuilder587/bedtime-stories/internal/llm/gigachat"
	"github.com/kitbuilder587/bedtime-stories/internal/llm/openai"
	"github.com/kitbuilder587/bedtime-stories/internal/llm/openrouter"
	"github.com/kitbuilder587/bedtime-stories/internal/metrics"
	"github.com/kitbuilder587/bedtime-stories/internal/service"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitCredential = 2
)

type options struct {
	topic       string
	age         int
	style       string
	moral       string
	maxLoops    int
	threshold   float64
	verbose     bool
	metricsFile string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "storyteller",
		Short: "Generate a bedtime story with an LLM judge-revise loop",
		Long: `storyteller drafts a children's story (ages 5-10), has a second LLM call
score it against a fixed rubric and revises it until the score reaches the
threshold or the revision budget runs out.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), stdout, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.topic, "topic", "", "Story topic (required)")
	flags.IntVar(&opts.age, "age", domain.DefaultAge, "Target age")
	flags.StringVar(&opts.style, "style", domain.DefaultStyle, "Story style")
	flags.StringVar(&opts.moral, "moral", domain.DefaultMoral, "Moral to end with")
	flags.IntVar(&opts.maxLoops, "max-loops", domain.DefaultMaxLoops, "Maximum revisions, length fix included")
	flags.Float64Var(&opts.threshold, "threshold", domain.DefaultThreshold, "Overall score (1-5) to accept a draft")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print drafts' word counts and judge reports")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write prometheus metrics to this textfile (or set METRICS_FILE)")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func run(ctx context.Context, stdout io.Writer, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New(nil)
	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.File
	}
	if metricsFile != "" {
		defer func() {
			if err := m.WriteTextfile(metricsFile); err != nil {
				logger.Warn("failed to write metrics file",
					zap.String("path", metricsFile),
					zap.Error(err),
				)
			}
		}()
	}

	// ключ проверяется здесь, до любого сетевого вызова
	client, err := newLLMClient(cfg, logger)
	if err != nil {
		return err
	}
	client = llm.WithMetrics(client, cfg.LLM.Provider, m)

	printer := console.NewPrinter(stdout, opts.verbose)
	svc := service.NewStoryService(service.StoryServiceDeps{
		LLM:     client,
		Logger:  logger,
		Metrics: m,
		Config: service.GenerationConfig{
			Model:     cfg.LLM.Model(),
			MaxTokens: cfg.LLM.MaxTokens,
		},
		Observer: printer,
	})

	req := domain.StoryRequest{
		Topic:     opts.topic,
		Age:       opts.age,
		Style:     opts.style,
		Moral:     opts.moral,
		MaxLoops:  opts.maxLoops,
		Threshold: opts.threshold,
		Verbose:   opts.verbose,
	}
	if err := req.Validate(); err != nil {
		return err
	}
	req.Sanitize()

	printer.Banner(console.RunInfo{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model(),
		Request:  req,
	})

	result, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	printer.Result(result)
	return nil
}

func newLLMClient(cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenRouter:
		client, err := openrouter.New(openrouter.Config{
			APIKey:  cfg.LLM.OpenRouter.APIKey,
			Model:   cfg.LLM.OpenRouter.Model,
			BaseURL: cfg.LLM.OpenRouter.BaseURL,
			Timeout: cfg.LLM.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderGigaChat:
		client, err := gigachat.New(gigachat.Config{
			AuthKey:      cfg.LLM.GigaChat.AuthKey,
			ClientID:     cfg.LLM.GigaChat.ClientID,
			ClientSecret: cfg.LLM.GigaChat.ClientSecret,
			Scope:        cfg.LLM.GigaChat.Scope,
			Model:        cfg.LLM.GigaChat.Model,
			AuthURL:      cfg.LLM.GigaChat.AuthURL,
			BaseURL:      cfg.LLM.GigaChat.BaseURL,
			Timeout:      cfg.LLM.Timeout,

			CAFile:             cfg.LLM.GigaChat.CAFile,
			InsecureSkipVerify: cfg.LLM.GigaChat.InsecureTLS,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := openai.New(openai.Config{
			APIKey:  cfg.LLM.OpenAI.APIKey,
			Model:   cfg.LLM.OpenAI.Model,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
			Timeout: cfg.LLM.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, llm.ErrMissingAPIKey), errors.Is(err, llm.ErrWrongKeyFormat):
		return exitCredential
	default:
		return exitFailure
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		console.PrintError(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
