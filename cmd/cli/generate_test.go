package main

import (
	"bytes"
	"encoding/json"
	"github.com/myrjola/studyassistant/internal/study"
	"github.com/myrjola/studyassistant/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"io"
	"net/http"
	"testing"
)

func runCLI(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	lookupEnv := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	var stdout bytes.Buffer
	cmd := newRootCmd(lookupEnv)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

func fakeEnv(fake *testhelpers.FakeOpenAI) map[string]string {
	return map[string]string{
		"OPENAI_API_KEY":  "sk-test",
		"OPENAI_BASE_URL": fake.BaseURL(),
	}
}

func TestGenerate(t *testing.T) {
	materials := testhelpers.SampleStudyMaterials(2)
	fake := testhelpers.NewFakeOpenAI(t, testhelpers.FakeReply{ //nolint:exhaustruct // success
		Content: testhelpers.StudyMaterialsJSON(t, materials),
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := runCLI(t, fakeEnv(fake), "generate", "--subject", " Biology ", "--topic", "Mitosis")
		require.NoError(t, err)

		var doc studyDocument
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "Biology", doc.Subject)
		assert.Equal(t, "Mitosis", doc.Topic)
		assert.Equal(t, materials, doc.StudyMaterials)
		assert.Contains(t, out, "detailedSummary:")
		assert.Contains(t, out, "correctAnswerKey: A")
	})

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, fakeEnv(fake), "generate", "--subject", "Biology", "--topic", "Mitosis", "--format", "json")
		require.NoError(t, err)

		var doc studyDocument
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "Biology", doc.Subject)
		assert.Equal(t, materials, doc.StudyMaterials)
		assert.Contains(t, out, `"multipleChoiceQuestions"`)
	})

	assert.Equal(t, 2, fake.Requests())
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		fake := testhelpers.NewFakeOpenAI(t)
		_, err := runCLI(t, fakeEnv(fake), "generate", "--subject", "Biology", "--topic", "Mitosis", "--format", "xml")
		require.ErrorIs(t, err, ErrUnknownFormat)
		assert.Zero(t, fake.Requests())
	})

	t.Run("missing flag", func(t *testing.T) {
		_, err := runCLI(t, map[string]string{}, "generate", "--subject", "Biology")
		require.ErrorContains(t, err, "topic")
	})

	t.Run("blank topic", func(t *testing.T) {
		fake := testhelpers.NewFakeOpenAI(t)
		_, err := runCLI(t, fakeEnv(fake), "generate", "--subject", "Biology", "--topic", "  ")
		require.ErrorIs(t, err, study.ErrEmptyInput)
		assert.Zero(t, fake.Requests())
	})

	t.Run("missing API key", func(t *testing.T) {
		_, err := runCLI(t, map[string]string{}, "generate", "--subject", "Biology", "--topic", "Mitosis")
		require.ErrorIs(t, err, study.ErrMissingCredential)
	})

	t.Run("rejected by the AI service", func(t *testing.T) {
		fake := testhelpers.NewFakeOpenAI(t, testhelpers.FakeReply{ //nolint:exhaustruct // failure
			Status:       http.StatusUnauthorized,
			ErrorMessage: "Incorrect API key provided",
		})
		out, err := runCLI(t, fakeEnv(fake), "generate", "--subject", "Biology", "--topic", "Mitosis")
		require.ErrorContains(t, err, "Incorrect API key provided")
		assert.Empty(t, out)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		env := map[string]string{"STUDYASSISTANT_GENERATION_TIMEOUT": "soon"}
		_, err := runCLI(t, env, "generate", "--subject", "Biology", "--topic", "Mitosis")
		require.Error(t, err)
	})
}
