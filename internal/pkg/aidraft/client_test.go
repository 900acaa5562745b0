package aidraft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftTestClient(baseURL string) *Client {
	return &Client{
		APIKey:     "sk-test",
		BaseURL:    baseURL,
		Model:      "gpt-4o-mini",
		HTTPClient: http.DefaultClient,
	}
}

func TestGenerateDraftSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Dear merchant team, ...  "}}]}`))
	}))
	defer srv.Close()

	c := draftTestClient(srv.URL)
	draft, err := c.GenerateDraft(context.Background(), DraftInput{DisputeID: "123", Reason: "fraudulent"})

	require.NoError(t, err)
	assert.Equal(t, "Dear merchant team, ...", draft)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "DISPUTE ID: 123")
	assert.Equal(t, draftTemperature, gotReq.Temperature)
	assert.Equal(t, draftMaxTokens, gotReq.MaxTokens)
}

func TestGenerateDraftMissingAPIKeyFailsFast(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := draftTestClient(srv.URL)
	c.APIKey = ""

	_, err := c.GenerateDraft(context.Background(), DraftInput{DisputeID: "1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.False(t, called, "no request may leave the process without a key")
}

func TestGenerateDraftEmptyContentFallsBack(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"choices":[]}`,
		"empty content": `{"choices":[{"message":{"content":"   "}}]}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		c := draftTestClient(srv.URL)
		draft, err := c.GenerateDraft(context.Background(), DraftInput{DisputeID: "1"})
		srv.Close()

		require.NoError(t, err, name)
		assert.Equal(t, FallbackDraft, draft, name)
	}
}

func TestGenerateDraftNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key"}}`))
	}))
	defer srv.Close()

	c := draftTestClient(srv.URL)
	_, err := c.GenerateDraft(context.Background(), DraftInput{DisputeID: "1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
	assert.Contains(t, err.Error(), "Incorrect API key")
}
