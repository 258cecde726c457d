package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/llm"
	"github.com/kitbuilder587/bedtime-stories/internal/metrics"
	"github.com/kitbuilder587/bedtime-stories/internal/prompt"
)

const (
	DraftTemperature  = 0.5
	JudgeTemperature  = 0.0
	ReviseTemperature = 0.4

	DefaultMaxTokens = 1600
)

const (
	PurposeDraft  = "draft"
	PurposeJudge  = "judge"
	PurposeRevise = "revise"
)

type Judge interface {
	Review(ctx context.Context, story string) (*domain.JudgeReport, error)
}

type StoryService interface {
	Generate(ctx context.Context, req domain.StoryRequest) (*domain.StoryResult, error)
}

type GenerationConfig struct {
	Model     string // пусто - модель провайдера по умолчанию
	MaxTokens int
}

func (c GenerationConfig) withDefaults() GenerationConfig {
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}

type StoryServiceDeps struct {
	LLM     llm.Client
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  GenerationConfig

	// опциональные компоненты
	Judge    Judge
	Observer Observer
}

type storyService struct {
	llm      llm.Client
	judge    Judge
	logger   *zap.Logger
	metrics  *metrics.Metrics
	config   GenerationConfig
	observer Observer
}

func NewStoryService(deps StoryServiceDeps) StoryService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	deps.Config = deps.Config.withDefaults()
	if deps.Judge == nil {
		deps.Judge = NewJudgeService(deps.LLM, deps.Logger, deps.Metrics, deps.Config)
	}
	if deps.Observer == nil {
		deps.Observer = NopObserver{}
	}

	return &storyService{
		llm:      deps.LLM,
		judge:    deps.Judge,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		config:   deps.Config,
		observer: deps.Observer,
	}
}

// Generate: черновик -> (правка длины) -> оценка -> (правка -> оценка)* -> результат.
// Всего не больше 2 + 2*MaxLoops вызовов модели. Исчерпанный бюджет - не ошибка.
func (s *storyService) Generate(ctx context.Context, req domain.StoryRequest) (result *domain.StoryResult, err error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Sanitize()

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	defer func() {
		if s.metrics == nil {
			return
		}
		outcome := "failed"
		if err == nil {
			outcome = result.Outcome.String()
		}
		s.metrics.RecordRun(outcome, time.Since(startTime))
	}()

	logger.Info("generating story",
		zap.Int("topic_length", len(req.Topic)),
		zap.Int("age", req.Age),
		zap.Int("max_loops", req.MaxLoops),
		zap.Float64("threshold", req.Threshold),
	)

	story, err := s.llm.Generate(ctx, llm.Request{
		Model:       s.config.Model,
		Messages:    prompt.Draft(req.Topic, req.Age, req.Style, req.Moral),
		Temperature: DraftTemperature,
		MaxTokens:   s.config.MaxTokens,
		Purpose:     PurposeDraft,
	})
	if err != nil {
		logger.Error("draft generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: draft: %w", domain.ErrProvider, err)
	}
	s.observer.DraftCreated(domain.WordCount(story))

	revisionsUsed := 0
	lengthFix := false

	// разовая правка длины до первой оценки, тратит единицу бюджета
	if hint, ok := domain.LengthHint(story); ok && revisionsUsed < req.MaxLoops {
		logger.Info("draft length out of band, applying length revision",
			zap.Int("word_count", domain.WordCount(story)),
		)
		s.observer.LengthFixStarted(hint)

		pseudo := domain.JudgeReport{Overall: domain.PseudoOverall, ActionableFeedback: []string{hint}}
		story, err = s.revise(ctx, story, pseudo.ActionableFeedback, domain.TargetOverall(pseudo.Overall), "length")
		if err != nil {
			logger.Error("length revision failed", zap.Error(err))
			return nil, err
		}
		revisionsUsed++
		lengthFix = true
		s.observer.LengthFixApplied(domain.WordCount(story))
	}

	rounds := 1
	report, err := s.judge.Review(ctx, story)
	if err != nil {
		return nil, fmt.Errorf("judge round %d: %w", rounds, err)
	}
	s.observer.Judged(rounds, report)

	for !report.Meets(req.Threshold) && revisionsUsed < req.MaxLoops {
		s.observer.RevisionStarted(revisionsUsed+1, req.MaxLoops)

		feedback := domain.MergeFeedback(report.ActionableFeedback, story)
		target := domain.TargetOverall(report.Overall)

		logger.Info("revising story",
			zap.Int("loop", revisionsUsed+1),
			zap.Float64("overall", report.Overall),
			zap.Float64("target", target),
			zap.Int("feedback_items", len(feedback)),
		)

		story, err = s.revise(ctx, story, feedback, target, "quality")
		if err != nil {
			logger.Error("revision failed", zap.Error(err))
			return nil, err
		}
		revisionsUsed++

		rounds++
		report, err = s.judge.Review(ctx, story)
		if err != nil {
			return nil, fmt.Errorf("judge round %d: %w", rounds, err)
		}
		s.observer.Judged(rounds, report)
	}

	outcome := domain.OutcomeAccepted
	if !report.Meets(req.Threshold) {
		outcome = domain.OutcomeBestEffort
		logger.Info("max revisions reached, returning latest draft",
			zap.Float64("overall", report.Overall),
			zap.Int("revisions_used", revisionsUsed),
		)
	}

	logger.Info("story generated",
		zap.String("outcome", outcome.String()),
		zap.Float64("overall", report.Overall),
		zap.Int("revisions_used", revisionsUsed),
		zap.Int("judge_rounds", rounds),
		zap.Int("word_count", domain.WordCount(story)),
	)

	return &domain.StoryResult{
		RunID:            runID,
		Story:            story,
		Report:           report,
		Outcome:          outcome,
		RevisionsUsed:    revisionsUsed,
		JudgeRounds:      rounds,
		LengthFixApplied: lengthFix,
	}, nil
}

func (s *storyService) revise(ctx context.Context, story string, feedback []string, target float64, reason string) (string, error) {
	revised, err := s.llm.Generate(ctx, llm.Request{
		Model:       s.config.Model,
		Messages:    prompt.Revise(story, feedback, target),
		Temperature: ReviseTemperature,
		MaxTokens:   s.config.MaxTokens,
		Purpose:     PurposeRevise,
	})
	if err != nil {
		return "", fmt.Errorf("%w: revise: %w", domain.ErrProvider, err)
	}
	if s.metrics != nil {
		s.metrics.RecordRevision(reason)
	}
	return revised, nil
}
