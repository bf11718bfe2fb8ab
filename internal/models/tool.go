package models

// StudyTool selects which view of [StudyMaterials] is displayed. The zero value ToolNone means no view is selected.
type StudyTool string

const (
	ToolNone               StudyTool = ""
	ToolDetailedSummary    StudyTool = "detailed-summary"
	ToolTextualMindMap     StudyTool = "mind-map"
	ToolDiagramSuggestions StudyTool = "diagrams"
	ToolMnemonics          StudyTool = "mnemonics"
	ToolQuiz               StudyTool = "quiz"
	ToolVisualResources    StudyTool = "visual-resources"
	ToolExtraTips          StudyTool = "extra-tips"
)

// StudyTools lists the selectable tools in display order.
var StudyTools = []StudyTool{ //nolint:gochecknoglobals // read-only lookup table
	ToolDetailedSummary,
	ToolTextualMindMap,
	ToolDiagramSuggestions,
	ToolMnemonics,
	ToolQuiz,
	ToolVisualResources,
	ToolExtraTips,
}

var toolLabels = map[StudyTool]string{ //nolint:gochecknoglobals // read-only lookup table
	ToolDetailedSummary:    "Detailed Summary",
	ToolTextualMindMap:     "Textual Mind Map",
	ToolDiagramSuggestions: "Diagram Suggestions",
	ToolMnemonics:          "Memory Shortcuts",
	ToolQuiz:               "Quiz",
	ToolVisualResources:    "Visual Resources",
	ToolExtraTips:          "Extra Tips",
}

// Label is the human-readable name of the tool.
func (t StudyTool) Label() string {
	return toolLabels[t]
}

// Valid reports whether t is one of the selectable tools.
func (t StudyTool) Valid() bool {
	_, ok := toolLabels[t]
	return ok
}

func (t StudyTool) String() string {
	return string(t)
}

// ParseStudyTool parses the slug used in forms and URLs.
func ParseStudyTool(slug string) (StudyTool, bool) {
	tool := StudyTool(slug)
	return tool, tool.Valid()
}
