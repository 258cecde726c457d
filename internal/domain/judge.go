package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RubricDimensions - фиксированный набор ключей в "scores"
var RubricDimensions = []string{
	"audience_fit",
	"plot_structure",
	"moral_clarity",
	"vocabulary",
	"safety",
	"length",
}

var requiredReportFields = []string{"scores", "overall", "actionable_feedback"}

// Score - оценка по одному измерению. Из JSON принимается любое целое число,
// в том числе записанное как 4.0; дробные значения и строки отклоняются.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return fmt.Errorf("score %v is not an integer", f)
	}
	*s = Score(f)
	return nil
}

type Scores struct {
	AudienceFit   Score `json:"audience_fit" validate:"min=1,max=5"`
	PlotStructure Score `json:"plot_structure" validate:"min=1,max=5"`
	MoralClarity  Score `json:"moral_clarity" validate:"min=1,max=5"`
	Vocabulary    Score `json:"vocabulary" validate:"min=1,max=5"`
	Safety        Score `json:"safety" validate:"min=1,max=5"`
	Length        Score `json:"length" validate:"min=1,max=5"`
}

// ByDimension - оценки в порядке RubricDimensions
func (s Scores) ByDimension() map[string]int {
	return map[string]int{
		"audience_fit":   int(s.AudienceFit),
		"plot_structure": int(s.PlotStructure),
		"moral_clarity":  int(s.MoralClarity),
		"vocabulary":     int(s.Vocabulary),
		"safety":         int(s.Safety),
		"length":         int(s.Length),
	}
}

type JudgeReport struct {
	Scores             Scores   `json:"scores"`
	Overall            float64  `json:"overall" validate:"min=1,max=5"`
	ActionableFeedback []string `json:"actionable_feedback"`
}

// Meets - принимаем черновик без правок
func (r *JudgeReport) Meets(threshold float64) bool {
	return r != nil && r.Overall >= threshold
}

// ContractError - причина, по которой ответ судьи не прошел контракт
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string {
	return "judge contract: " + e.Reason
}

func (e *ContractError) Unwrap() error {
	return ErrJudgeContract
}

var reportValidator = newReportValidator()

func newReportValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в причинах отказа показываем имена полей как в JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseJudgeReport - строгий разбор ответа судьи. Никогда не паникует:
// любой отказ возвращается как *ContractError.
func ParseJudgeReport(raw string) (report *JudgeReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			report, err = nil, &ContractError{Reason: fmt.Sprintf("unexpected: %v", r)}
		}
	}()

	data := []byte(strings.TrimSpace(raw))
	if !json.Valid(data) {
		return nil, &ContractError{Reason: "invalid json"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, &ContractError{Reason: "not a json object"}
	}
	for _, key := range requiredReportFields {
		if _, ok := fields[key]; !ok {
			return nil, &ContractError{Reason: fmt.Sprintf("missing field %q", key)}
		}
	}

	var out JudgeReport
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ContractError{Reason: "invalid field types: " + err.Error()}
	}

	if err := reportValidator.Struct(out); err != nil {
		return nil, &ContractError{Reason: describeValidation(err)}
	}

	return &out, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	return fmt.Sprintf("field %s failed %s=%s (got %v)", path, fe.Tag(), fe.Param(), fe.Value())
}
