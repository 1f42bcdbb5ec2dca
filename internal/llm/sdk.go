package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// SDKCaller sends requests through the generative-ai-go SDK, keeping one SDK
// client per API key.
type SDKCaller struct {
	model  string
	params GenerationParams
	hints  RetryHintParser
	opts   []option.ClientOption

	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewSDKCaller(model string, params GenerationParams, hints RetryHintParser, opts ...option.ClientOption) *SDKCaller {
	if hints == nil {
		hints = GoogleRetryInfoParser{}
	}
	return &SDKCaller{
		model:   model,
		params:  params,
		hints:   hints,
		opts:    opts,
		clients: make(map[string]*genai.Client),
	}
}

func (c *SDKCaller) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[apiKey]; ok {
		return cl, nil
	}
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, c.opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	c.clients[apiKey] = cl
	return cl, nil
}

func (c *SDKCaller) Call(ctx context.Context, apiKey, prompt string) (string, error) {
	cl, err := c.client(ctx, apiKey)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	model := cl.GenerativeModel(c.model)
	model.SetTemperature(c.params.Temperature)
	model.SetTopP(c.params.TopP)
	if c.params.TopK > 0 {
		model.SetTopK(int32(c.params.TopK))
	}
	if c.params.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(c.params.MaxOutputTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifySDKError(err, c.hints)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &MalformedResponseError{Err: errors.New("gemini returned no text content")}
	}
	return text, nil
}

// Close releases every SDK client created so far.
func (c *SDKCaller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for key, cl := range c.clients {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.clients, key)
	}
	return errors.Join(errs...)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func classifySDKError(err error, hints RetryHintParser) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &RequestError{Err: err}
	}
	if apiErr.Code == http.StatusTooManyRequests || apiErr.Code == http.StatusForbidden {
		delay, _ := hints.ParseRetryHint([]byte(apiErr.Body))
		return &RateLimitError{StatusCode: apiErr.Code, RetryAfter: delay, Body: truncate(apiErr.Body, 512)}
	}
	return &RequestError{StatusCode: apiErr.Code, Body: truncate(apiErr.Body, 512), Err: err}
}
