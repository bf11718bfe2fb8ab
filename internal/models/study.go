package models

import (
	"maps"
	"slices"
	"time"
)

// StudyMaterials is the structured study document generated for a subject and topic.
//
// The JSON field names are part of the contract with the AI model and must not change.
type StudyMaterials struct {
	DetailedSummary         string                   `json:"detailedSummary"         yaml:"detailedSummary"         validate:"required"`
	TextualMindMap          string                   `json:"textualMindMap"          yaml:"textualMindMap"          validate:"required"`
	DiagramSuggestions      []DiagramSuggestion      `json:"diagramSuggestions"      yaml:"diagramSuggestions"      validate:"required,dive"`
	Mnemonics               []string                 `json:"mnemonics"               yaml:"mnemonics"               validate:"required,dive,required"`
	MultipleChoiceQuestions []MultipleChoiceQuestion `json:"multipleChoiceQuestions" yaml:"multipleChoiceQuestions" validate:"min=1,dive"`
	// VisualResources is nil when the model did not suggest any.
	VisualResources []VisualResource `json:"visualResources,omitempty" yaml:"visualResources,omitempty" validate:"omitempty,dive"`
	ExtraTips       []string         `json:"extraTips"                 yaml:"extraTips"                 validate:"required,dive,required"`
}

// Clone returns a deep copy that shares no slices or maps with m.
func (m StudyMaterials) Clone() StudyMaterials {
	c := m
	if m.DiagramSuggestions != nil {
		c.DiagramSuggestions = make([]DiagramSuggestion, len(m.DiagramSuggestions))
		for i, d := range m.DiagramSuggestions {
			d.Steps = slices.Clone(d.Steps)
			c.DiagramSuggestions[i] = d
		}
	}
	c.Mnemonics = slices.Clone(m.Mnemonics)
	if m.MultipleChoiceQuestions != nil {
		c.MultipleChoiceQuestions = make([]MultipleChoiceQuestion, len(m.MultipleChoiceQuestions))
		for i, q := range m.MultipleChoiceQuestions {
			q.Options = maps.Clone(q.Options)
			c.MultipleChoiceQuestions[i] = q
		}
	}
	c.VisualResources = slices.Clone(m.VisualResources)
	c.ExtraTips = slices.Clone(m.ExtraTips)
	return c
}

// HasVisualResources reports whether the optional visual resources are present.
func (m StudyMaterials) HasVisualResources() bool {
	return len(m.VisualResources) > 0
}

type DiagramSuggestion struct {
	Name        string   `json:"name"        yaml:"name"        validate:"required"`
	Description string   `json:"description" yaml:"description" validate:"required"`
	Steps       []string `json:"steps"       yaml:"steps"       validate:"required,dive,required"`
}

// MultipleChoiceQuestion maps option keys such as "A" to option texts. CorrectAnswerKey is one of the keys.
type MultipleChoiceQuestion struct {
	Question         string            `json:"question"              yaml:"question"              validate:"required"`
	Options          map[string]string `json:"options"               yaml:"options"               validate:"min=2,dive,keys,required,endkeys,required"`
	CorrectAnswerKey string            `json:"correctAnswerKey"      yaml:"correctAnswerKey"      validate:"required"`
	Explanation      string            `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// CorrectAnswer returns the text of the correct option.
func (q MultipleChoiceQuestion) CorrectAnswer() string {
	return q.Options[q.CorrectAnswerKey]
}

type VisualResourceKind string

const (
	VisualResourceKindVideo VisualResourceKind = "video"
	VisualResourceKindImage VisualResourceKind = "image"
)

type VisualResource struct {
	Title string             `json:"title" yaml:"title" validate:"required"`
	URL   string             `json:"url"   yaml:"url"   validate:"required,http_url"`
	Kind  VisualResourceKind `json:"type"  yaml:"type"  validate:"oneof=video image"`
}

// StudyRequest is the subject and topic a user asked study materials for.
type StudyRequest struct {
	Subject string
	Topic   string
}

// StoredStudyMaterials is a previously generated study document kept in the history.
type StoredStudyMaterials struct {
	ID        int64
	Subject   string
	Topic     string
	Materials StudyMaterials
	CreatedAt time.Time
}
