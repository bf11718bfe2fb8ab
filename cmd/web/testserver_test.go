package main

import (
	"context"
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/studyassistant/internal/e2etest"
	"github.com/myrjola/studyassistant/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

// testLookupEnv configures the server for tests. fake may be nil for a server without an API key.
func testLookupEnv(fake *testhelpers.FakeOpenAI) func(string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "STUDYASSISTANT_ADDR":
			return "localhost:0", true
		case "STUDYASSISTANT_SQLITE_URL":
			return ":memory:", true
		case "OPENAI_API_KEY":
			if fake == nil {
				return "", false
			}
			return "test-key", true
		case "OPENAI_BASE_URL":
			if fake == nil {
				return "", false
			}
			return fake.BaseURL(), true
		default:
			return "", false
		}
	}
}

func startTestServer(t *testing.T, fake *testhelpers.FakeOpenAI) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(t.Context(), io.Discard, testLookupEnv(fake), run)
	require.NoError(t, err)
	return server
}

// waitForSettled polls the home page until the study request is no longer loading.
func waitForSettled(t *testing.T, client *e2etest.Client) *goquery.Document {
	t.Helper()
	var doc *goquery.Document
	require.Eventually(t, func() bool {
		var err error
		if doc, err = client.GetDoc(context.Background(), "/"); err != nil {
			return false
		}
		return doc.Find("#loading").Length() == 0
	}, 5*time.Second, 20*time.Millisecond)
	return doc
}
