package testhelpers

import (
	"encoding/json"
	"github.com/myrjola/studyassistant/internal/models"
	"github.com/sashabaranov/go-openai"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// FakeReply is a canned answer of [FakeOpenAI].
type FakeReply struct {
	// Status is the HTTP status. Zero means 200.
	Status int
	// Content is the assistant message content for successful replies.
	Content string
	// ErrorMessage is returned in the OpenAI error envelope when Status is not 200.
	ErrorMessage string
	// Release, if not nil, blocks the reply until it is closed.
	Release <-chan struct{}
}

// FakeOpenAI is an OpenAI compatible chat completions endpoint serving canned replies in order.
// The last reply is repeated when the queue runs out.
type FakeOpenAI struct {
	server   *httptest.Server
	mu       sync.Mutex
	replies  []FakeReply
	requests atomic.Int64
}

// NewFakeOpenAI starts the fake server and closes it when the test finishes.
func NewFakeOpenAI(t *testing.T, replies ...FakeReply) *FakeOpenAI {
	t.Helper()
	f := &FakeOpenAI{replies: replies} //nolint:exhaustruct // zero values are fine
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	return f
}

// BaseURL is the value for the OpenAI client's BaseURL setting.
func (f *FakeOpenAI) BaseURL() string {
	return f.server.URL + "/v1"
}

// Requests returns the number of chat completion requests received so far.
func (f *FakeOpenAI) Requests() int {
	return int(f.requests.Load())
}

// Enqueue appends replies to the queue.
func (f *FakeOpenAI) Enqueue(replies ...FakeReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replies...)
}

func (f *FakeOpenAI) nextReply() FakeReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		return FakeReply{Status: http.StatusInternalServerError, ErrorMessage: "no reply configured"} //nolint:exhaustruct
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply
}

func (f *FakeOpenAI) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	reply := f.nextReply()
	if reply.Release != nil {
		select {
		case <-reply.Release:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if reply.Status != 0 && reply.Status != http.StatusOK {
		w.WriteHeader(reply.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": reply.ErrorMessage,
				"type":    "invalid_request_error",
			},
		})
		return
	}

	_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ //nolint:exhaustruct // only what the client reads
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  openai.GPT3Dot5Turbo1106,
		Choices: []openai.ChatCompletionChoice{
			{ //nolint:exhaustruct // only what the client reads
				Index: 0,
				Message: openai.ChatCompletionMessage{ //nolint:exhaustruct // only what the client reads
					Role:    openai.ChatMessageRoleAssistant,
					Content: reply.Content,
				},
				FinishReason: openai.FinishReasonStop,
			},
		},
	})
}

// SampleStudyMaterials returns valid study materials with the given number of quiz questions.
func SampleStudyMaterials(questions int) models.StudyMaterials {
	mcqs := make([]models.MultipleChoiceQuestion, questions)
	for i := range mcqs {
		mcqs[i] = models.MultipleChoiceQuestion{
			Question: "Which phase follows prophase?",
			Options: map[string]string{
				"A": "Metaphase",
				"B": "Anaphase",
				"C": "Telophase",
				"D": "Interphase",
			},
			CorrectAnswerKey: "A",
			Explanation:      "Chromosomes line up at the metaphase plate after prophase.",
		}
	}
	return models.StudyMaterials{
		DetailedSummary: "Mitosis is the division of a nucleus into two genetically identical nuclei.",
		TextualMindMap:  "Mitosis\n├─ Prophase\n├─ Metaphase\n├─ Anaphase\n└─ Telophase",
		DiagramSuggestions: []models.DiagramSuggestion{
			{
				Name:        "Cell cycle wheel",
				Description: "A circle divided into the phases of the cell cycle.",
				Steps:       []string{"Draw a circle", "Divide it into interphase and mitosis"},
			},
		},
		Mnemonics:               []string{"PMAT: Prophase, Metaphase, Anaphase, Telophase"},
		MultipleChoiceQuestions: mcqs,
		VisualResources:         nil,
		ExtraTips:               []string{"Do not confuse mitosis with meiosis."},
	}
}

// StudyMaterialsJSON marshals materials as the model would answer.
func StudyMaterialsJSON(t *testing.T, materials models.StudyMaterials) string {
	t.Helper()
	b, err := json.Marshal(materials)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
