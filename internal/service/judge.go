package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/llm"
	"github.com/kitbuilder587/bedtime-stories/internal/metrics"
	"github.com/kitbuilder587/bedtime-stories/internal/prompt"
)

type JudgeService struct {
	llm     llm.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  GenerationConfig
}

func NewJudgeService(llmClient llm.Client, logger *zap.Logger, m *metrics.Metrics, config GenerationConfig) *JudgeService {
	return &JudgeService{
		llm:     llmClient,
		logger:  logger,
		metrics: m,
		config:  config.withDefaults(),
	}
}

// Review оценивает историю по рубрике. Один повтор с усиленным требованием JSON,
// после второго отказа - ошибка контракта, запасной оценки нет.
func (s *JudgeService) Review(ctx context.Context, story string) (*domain.JudgeReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.logger.Debug("judging story",
		zap.Int("word_count", domain.WordCount(story)),
	)

	report, err := s.attempt(ctx, prompt.Judge(story))
	if err == nil {
		return report, nil
	}

	var cerr *domain.ContractError
	if !errors.As(err, &cerr) {
		return nil, err
	}

	s.logger.Warn("judge response rejected, retrying with strict JSON instruction",
		zap.String("reason", cerr.Reason),
	)

	report, err = s.attempt(ctx, prompt.StrictJudge(story))
	if err != nil {
		if errors.As(err, &cerr) {
			s.logger.Error("judge response rejected after retry",
				zap.String("reason", cerr.Reason),
			)
			return nil, fmt.Errorf("after retry: %w", err)
		}
		return nil, err
	}
	return report, nil
}

func (s *JudgeService) attempt(ctx context.Context, msgs []llm.Message) (*domain.JudgeReport, error) {
	raw, err := s.llm.Generate(ctx, llm.Request{
		Model:       s.config.Model,
		Messages:    msgs,
		Temperature: JudgeTemperature,
		MaxTokens:   s.config.MaxTokens,
		Purpose:     PurposeJudge,
	})
	if err != nil {
		s.logger.Error("LLM judge call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: judge: %w", domain.ErrProvider, err)
	}

	report, err := domain.ParseJudgeReport(raw)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordJudgeRejection()
		}
		s.logger.Debug("judge raw response", zap.String("response", raw))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordJudgeScore(report.Overall)
	}
	return report, nil
}
