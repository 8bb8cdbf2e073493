package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrAuth - APIキー未設定/拒否。設定を直してもらう系のエラー
	ErrAuth = errors.New("AI API key is missing or rejected")
	// ErrParse - 応答は返ってきたが中身が契約どおりでない。リトライしてもらう系
	ErrParse = errors.New("could not understand the AI response")
)

// Client - Gemini generateContent を叩く薄いクライアント
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client

	// BaseURL is overridable for tests
	BaseURL string
}

func New(config model.Config) (*Client, error) {
	apiKey := strings.TrimSpace(config.AI.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ai.api_key with `pick3 config`", ErrAuth)
	}

	aiModel := config.AI.Model
	if aiModel == "" {
		aiModel = "gemini-2.0-flash"
	}

	return &Client{
		apiKey:     apiKey,
		model:      aiModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		BaseURL:    defaultBaseURL,
	}, nil
}

// Generate - プロンプトを送ってテキスト応答を1つ返す
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read AI response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w (HTTP %d)", ErrAuth, resp.StatusCode)
	default:
		return "", fmt.Errorf("AI request failed with HTTP %d", resp.StatusCode)
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates", ErrParse)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
