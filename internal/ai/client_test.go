package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(key string) model.Config {
	config := model.Config{}
	config.AI.APIKey = key
	config.AI.Model = "gemini-2.0-flash"
	return config
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(testConfig(""))
	assert.ErrorIs(t, err, ErrAuth)

	_, err = New(testConfig("   "))
	assert.ErrorIs(t, err, ErrAuth)

	client, err := New(testConfig("key-123"))
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestGenerateReturnsFirstCandidateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello from the model"}]}}]}`))
	}))
	defer server.Close()

	client, err := New(testConfig("key-123"))
	require.NoError(t, err)
	client.BaseURL = server.URL

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", text)
}

func TestGenerateMapsForbiddenToAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := New(testConfig("bad-key"))
	require.NoError(t, err)
	client.BaseURL = server.URL

	_, err = client.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrAuth)
}

func TestGenerateEmptyCandidatesIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client, err := New(testConfig("key-123"))
	require.NoError(t, err)
	client.BaseURL = server.URL

	_, err = client.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrParse)
}
