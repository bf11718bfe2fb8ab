package ai

import (
	"fmt"
	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are an expert tutor who prepares concise, accurate study material for students.
Answer only with a single JSON object and no surrounding text. The object has exactly these fields:
{
  "detailedSummary": string, a thorough explanation of the topic in several paragraphs,
  "textualMindMap": string, a mind map drawn as a text tree using "├─" and "└─" connectors and newlines,
  "diagramSuggestions": [{"name": string, "description": string, "steps": [string]}],
  "mnemonics": [string],
  "multipleChoiceQuestions": [{
    "question": string,
    "options": {"A": string, "B": string, "C": string, "D": string},
    "correctAnswerKey": one of the option keys,
    "explanation": string
  }],
  "visualResources": [{"title": string, "url": string, "type": "video" or "image"}],
  "extraTips": [string]
}
Include between 3 and 5 multiple choice questions. Omit "visualResources" if you do not know real, working URLs.
"extraTips" covers common mistakes and study strategies.`

func studyMaterialsMessages(subject, topic string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{ //nolint:exhaustruct // this is better for readability
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{ //nolint:exhaustruct // this is better for readability
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("Subject: %s\nTopic: %s\nCreate the study materials.", subject, topic),
		},
	}
}
