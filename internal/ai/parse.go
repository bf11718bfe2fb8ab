package ai

import (
	"encoding/json"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/models"
	"io"
	"strings"
	"sync"
)

var ErrMalformedResponse = errors.NewSentinel("the AI response was not valid study material")

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			q, ok := sl.Current().Interface().(models.MultipleChoiceQuestion)
			if !ok {
				return
			}
			if _, found := q.Options[q.CorrectAnswerKey]; !found {
				sl.ReportError(q.CorrectAnswerKey, "CorrectAnswerKey", "correctAnswerKey", "option_key", "")
			}
		}, models.MultipleChoiceQuestion{}) //nolint:exhaustruct // type marker
		validateInst = v
	})
	return validateInst
}

// ParseStudyMaterials decodes and validates the model output.
//
// Markdown code fences around the JSON object are tolerated because some models add them despite instructions.
func ParseStudyMaterials(content string) (models.StudyMaterials, error) {
	var materials models.StudyMaterials

	raw := stripCodeFence(content)
	if raw == "" {
		return models.StudyMaterials{}, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&materials); err != nil {
		return models.StudyMaterials{}, fmt.Errorf("%w: invalid JSON: %w", ErrMalformedResponse, err)
	}
	// The object must be the whole answer.
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return models.StudyMaterials{}, fmt.Errorf("%w: unexpected data after the JSON object", ErrMalformedResponse)
	}

	if err := validatorInstance().Struct(materials); err != nil {
		return models.StudyMaterials{}, fmt.Errorf("%w: %s", ErrMalformedResponse, describeValidationError(err))
	}

	return materials, nil
}

func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the optional language tag on the opening fence.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func describeValidationError(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return fmt.Sprintf("%s failed validation for tag '%s'", jsonishFieldName(fe), fe.Tag())
	}
	return err.Error()
}

// jsonishFieldName turns "StudyMaterials.MultipleChoiceQuestions[0].Options" into
// "multipleChoiceQuestions[0].options".
func jsonishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToLower(part[:1]) + part[1:]
	}
	return strings.Join(parts, ".")
}
