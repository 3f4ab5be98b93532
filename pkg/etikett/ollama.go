package etikett

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"k8s.io/klog/v2"
)

var (
	// DefaultEndpoint is the generate API of a local Ollama instance.
	DefaultEndpoint = "http://localhost:11434/api/generate"
	// DefaultModel is the vision model queried by default.
	DefaultModel = "llava:7b"
)

// Tagger describes an image given a natural-language instruction.
type Tagger interface {
	Describe(ctx context.Context, image []byte, prompt string) (string, error)
}

// OllamaClient drives a streaming generate exchange against a local Ollama
// endpoint.
type OllamaClient struct {
	Endpoint string
	Model    string

	// HTTPClient carries no timeout: generation time is unbounded on local
	// hardware.
	HTTPClient *http.Client
}

// NewOllamaClient returns a client for the given endpoint and model.
func NewOllamaClient(endpoint string, model string) *OllamaClient {
	return &OllamaClient{Endpoint: endpoint, Model: model, HTTPClient: &http.Client{}}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Describe sends the image and prompt, accumulating streamed response
// fragments in arrival order until the endpoint reports completion.
func (c *OllamaClient) Describe(ctx context.Context, image []byte, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.Model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	})
	if err != nil {
		return "", stageErr(ErrTransport, c.Endpoint, fmt.Errorf("marshal: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", stageErr(ErrTransport, c.Endpoint, fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", stageErr(ErrTransport, c.Endpoint, fmt.Errorf("post: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", stageErr(ErrTransport, c.Endpoint, fmt.Errorf("unexpected status %q", resp.Status))
	}

	var full strings.Builder
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", stageErr(ErrTransport, c.Endpoint, fmt.Errorf("decode chunk: %w", err))
		}

		full.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}

	if err := sc.Err(); err != nil {
		return "", stageErr(ErrTransport, c.Endpoint, fmt.Errorf("stream: %w", err))
	}

	klog.V(1).Infof("model answered with %d bytes", full.Len())
	return full.String(), nil
}
