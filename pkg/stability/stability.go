package stability

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Generation parameters are fixed for every request.
const (
	cfgScale    = 7
	imageHeight = 512
	imageWidth  = 512
	sampleCount = 1
	stepCount   = 30
)

type Config struct {
	APIKey  string        `split_words:"true"`
	URL     string        `default:"https://api.stability.ai/v1/generation/stable-diffusion-v1-6/text-to-image"`
	Timeout time.Duration `default:"30s"`
}

var (
	ErrMissingAPIKey     = errors.New("stability: api key is not configured")
	ErrUnexpectedStatus  = errors.New("stability: unexpected response status")
	ErrMalformedResponse = errors.New("stability: malformed response payload")
)

// Client calls the text-to-image endpoint. One request per call, bounded by
// the configured timeout, no retries.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		url:    strings.TrimSpace(cfg.URL),
		apiKey: strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textToImageRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CFGScale    int          `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type textPrompt struct {
	Text string `json:"text"`
}

type textToImageResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// Generate renders a single image for prompt and returns the decoded raster
// bytes of the first artifact.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload := textToImageRequest{
		TextPrompts: []textPrompt{{Text: prompt}},
		CFGScale:    cfgScale,
		Height:      imageHeight,
		Width:       imageWidth,
		Samples:     sampleCount,
		Steps:       stepCount,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("stability: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("stability: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stability: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var out textToImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(out.Artifacts) == 0 || out.Artifacts[0].Base64 == "" {
		return nil, fmt.Errorf("%w: no artifacts", ErrMalformedResponse)
	}

	raw, err := base64.StdEncoding.DecodeString(out.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("%w: artifact is not valid base64: %v", ErrMalformedResponse, err)
	}
	return raw, nil
}
