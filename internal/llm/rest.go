package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 4 << 20

// GenerationParams are the fixed sampling settings sent with every request.
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// Caller performs one request to the generation service with one key.
// Errors are *RateLimitError, *RequestError or *MalformedResponseError.
type Caller interface {
	Call(ctx context.Context, apiKey, prompt string) (string, error)
}

// RESTCaller talks to the generateContent endpoint over plain JSON.
type RESTCaller struct {
	httpClient *http.Client
	baseURL    string
	model      string
	params     GenerationParams
	hints      RetryHintParser
}

func NewRESTCaller(httpClient *http.Client, baseURL, model string, params GenerationParams, hints RetryHintParser) *RESTCaller {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if hints == nil {
		hints = GoogleRetryInfoParser{}
	}
	return &RESTCaller{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		params:     params,
		hints:      hints,
	}
}

type textPart struct {
	Text string `json:"text"`
}

type content struct {
	Role  string     `json:"role,omitempty"`
	Parts []textPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP"`
	TopK            int     `json:"topK,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      *content `json:"content"`
		FinishReason string   `json:"finishReason"`
	} `json:"candidates"`
}

func (c *RESTCaller) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
}

func (c *RESTCaller) Call(ctx context.Context, apiKey, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []textPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.params.Temperature,
			TopP:            c.params.TopP,
			TopK:            c.params.TopK,
			MaxOutputTokens: c.params.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", &RequestError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", &RequestError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &RequestError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		delay, _ := c.hints.ParseRetryHint(body)
		return "", &RateLimitError{StatusCode: resp.StatusCode, RetryAfter: delay, Body: truncate(string(body), 512)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &RequestError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	return parseGenerateResponse(body)
}

// parseGenerateResponse decodes a generateContent payload into the text of
// its first candidate.
func parseGenerateResponse(body []byte) (string, error) {
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &MalformedResponseError{Body: truncate(string(body), 512), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Candidates) == 0 {
		return "", &MalformedResponseError{Body: truncate(string(body), 512), Err: errors.New("no candidates")}
	}
	first := parsed.Candidates[0]
	if first.Content == nil || len(first.Content.Parts) == 0 {
		return "", &MalformedResponseError{Body: truncate(string(body), 512), Err: fmt.Errorf("candidate has no content (finish reason %q)", first.FinishReason)}
	}

	var sb strings.Builder
	for _, p := range first.Content.Parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", &MalformedResponseError{Body: truncate(string(body), 512), Err: errors.New("empty text")}
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
