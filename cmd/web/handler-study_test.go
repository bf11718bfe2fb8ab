package main

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/studyassistant/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func Test_application_study(t *testing.T) {
	fake := testhelpers.NewFakeOpenAI(t, testhelpers.FakeReply{ //nolint:exhaustruct // success
		Content: testhelpers.StudyMaterialsJSON(t, testhelpers.SampleStudyMaterials(3)),
	})
	server := startTestServer(t, fake)
	ctx := t.Context()
	client := server.Client()

	_, err := client.SubmitForm(ctx, "/", "/study", url.Values{"subject": {"Biology"}, "topic": {"Mitosis"}})
	require.NoError(t, err)

	doc := waitForSettled(t, client)
	require.Equal(t, 1, fake.Requests())
	require.Equal(t, "Mitosis", strings.TrimSpace(doc.Find("#materials h1").Text()))
	require.Equal(t, "Biology", strings.TrimSpace(doc.Find("#materials .subject").Text()))
	require.Equal(t, 7, doc.Find("button.tool-tab").Length())
	require.Equal(t, 0, doc.Find("button.tool-tab[aria-pressed=true]").Length(), "no tool selected")
	require.Equal(t, 1, doc.Find("#tool-panel .placeholder").Length())

	t.Run("select tool with htmx", func(t *testing.T) {
		resp, err := client.PostForm(ctx, "/", "/study/tool", url.Values{"tool": {"quiz"}},
			map[string]string{"HX-Request": "true"})
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NotContains(t, string(body), "<html", "fragment only")
		fragment, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
		require.NoError(t, err)
		require.Equal(t, 3, fragment.Find("#tools .quiz li.question").Length())
		require.Equal(t, "Quiz", strings.TrimSpace(fragment.Find("button.tool-tab[aria-pressed=true]").Text()))
		require.Contains(t, fragment.Find(".answer").First().Text(), "Metaphase")
	})

	t.Run("select tool without htmx", func(t *testing.T) {
		doc, err := client.SubmitForm(ctx, "/", "/study/tool", url.Values{"tool": {"mind-map"}})
		require.NoError(t, err)
		require.Contains(t, doc.Find("pre.mind-map").Text(), "├─ Prophase")
	})

	t.Run("visual resources are optional", func(t *testing.T) {
		doc, err := client.SubmitForm(ctx, "/", "/study/tool", url.Values{"tool": {"visual-resources"}})
		require.NoError(t, err)
		require.Contains(t, doc.Find("#tool-panel .placeholder").Text(), "No visual resources")
	})

	t.Run("unknown tool", func(t *testing.T) {
		resp, err := client.PostForm(ctx, "/", "/study/tool", url.Values{"tool": {"flashcards"}}, nil)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("reset", func(t *testing.T) {
		doc, err := client.SubmitForm(ctx, "/", "/study/reset", nil)
		require.NoError(t, err)
		require.Equal(t, 1, doc.Find("form[action='/study']").Length())
		require.Equal(t, 0, doc.Find("#materials").Length())

		// Recording the history happens right after the request settles.
		require.Eventually(t, func() bool {
			doc, err = client.GetDoc(ctx, "/")
			return err == nil && strings.TrimSpace(doc.Find("#history li a").First().Text()) == "Mitosis"
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		other, err := server.NewClient()
		require.NoError(t, err)
		_, err = client.SubmitForm(ctx, "/", "/study", url.Values{"subject": {"Biology"}, "topic": {"Meiosis"}})
		require.NoError(t, err)
		waitForSettled(t, client)

		doc, err := other.GetDoc(ctx, "/")
		require.NoError(t, err)
		require.Equal(t, 0, doc.Find("#materials").Length())
	})
}

func Test_application_submitStudy_validation(t *testing.T) {
	fake := testhelpers.NewFakeOpenAI(t)
	server := startTestServer(t, fake)
	ctx := t.Context()

	tests := []struct {
		name      string
		values    url.Values
		wantError string
	}{
		{name: "blank topic", values: url.Values{"subject": {"Biology"}, "topic": {"  "}}, wantError: "#topic-error"},
		{name: "missing subject", values: url.Values{"topic": {"Mitosis"}}, wantError: "#subject-error"},
		{
			name:      "too long",
			values:    url.Values{"subject": {strings.Repeat("a", 201)}, "topic": {"Mitosis"}},
			wantError: "#subject-error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := server.Client().PostForm(ctx, "/", "/study", tt.values, nil)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			doc, err := goquery.NewDocumentFromReader(resp.Body)
			require.NoError(t, err)
			require.Equal(t, 1, doc.Find(tt.wantError).Length())
		})
	}
	require.Zero(t, fake.Requests())
}

func Test_application_submitStudy_failure(t *testing.T) {
	fake := testhelpers.NewFakeOpenAI(t, testhelpers.FakeReply{ //nolint:exhaustruct // error reply
		Status:       http.StatusTooManyRequests,
		ErrorMessage: "Rate limit reached for requests",
	})
	server := startTestServer(t, fake)
	ctx := t.Context()
	client := server.Client()

	_, err := client.SubmitForm(ctx, "/", "/study", url.Values{"subject": {"Biology"}, "topic": {"Mitosis"}})
	require.NoError(t, err)

	doc := waitForSettled(t, client)
	require.Contains(t, doc.Find("#study-error").Text(), "Rate limit reached for requests")
	require.Equal(t, 0, doc.Find("#materials").Length())
	require.Equal(t, 1, doc.Find("form[action='/study']").Length(), "user can resubmit")
	require.Equal(t, 0, doc.Find("#history").Length(), "failures are not recorded")
}

func Test_application_submitStudy_malformedResponse(t *testing.T) {
	fake := testhelpers.NewFakeOpenAI(t, testhelpers.FakeReply{ //nolint:exhaustruct // success with bad content
		Content: `{"detailedSummary": "only a summary"}`,
	})
	server := startTestServer(t, fake)
	client := server.Client()

	_, err := client.SubmitForm(t.Context(), "/", "/study", url.Values{"subject": {"Biology"}, "topic": {"Mitosis"}})
	require.NoError(t, err)

	doc := waitForSettled(t, client)
	require.Contains(t, doc.Find("#study-error").Text(), "not valid study material")
}
