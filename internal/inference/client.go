package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a Hugging Face style inference API. Each evaluator
// holds its own model identifier and shares one client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Entity struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
	Options    requestOptions     `json:"options"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// ZeroShot classifies text against the candidate labels and returns
// one score per label.
func (c *Client) ZeroShot(ctx context.Context, model, text string, labels []string) ([]LabelScore, error) {
	req := zeroShotRequest{
		Inputs: text,
		Parameters: zeroShotParameters{
			CandidateLabels: labels,
			MultiLabel:      true,
		},
		Options: requestOptions{WaitForModel: true},
	}

	var resp zeroShotResponse
	if err := c.post(ctx, model, req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Labels) != len(resp.Scores) {
		return nil, fmt.Errorf("mismatched labels and scores in response")
	}

	scores := make([]LabelScore, len(resp.Labels))
	for i := range resp.Labels {
		scores[i] = LabelScore{Label: resp.Labels[i], Score: resp.Scores[i]}
	}
	return scores, nil
}

type tokenClassifyRequest struct {
	Inputs     string                  `json:"inputs"`
	Parameters tokenClassifyParameters `json:"parameters"`
	Options    requestOptions          `json:"options"`
}

type tokenClassifyParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// TokenClassify runs named entity recognition over the text.
func (c *Client) TokenClassify(ctx context.Context, model, text string) ([]Entity, error) {
	req := tokenClassifyRequest{
		Inputs:     text,
		Parameters: tokenClassifyParameters{AggregationStrategy: "simple"},
		Options:    requestOptions{WaitForModel: true},
	}

	var entities []Entity
	if err := c.post(ctx, model, req, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

type textClassifyRequest struct {
	Inputs  string         `json:"inputs"`
	Options requestOptions `json:"options"`
}

// TextClassify runs sequence classification and returns the label
// scores for the single input.
func (c *Client) TextClassify(ctx context.Context, model, text string) ([]LabelScore, error) {
	req := textClassifyRequest{
		Inputs:  text,
		Options: requestOptions{WaitForModel: true},
	}

	var resp [][]LabelScore
	if err := c.post(ctx, model, req, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("empty classification response")
	}
	return resp[0], nil
}

type pairClassifyRequest struct {
	Inputs  pairInputs     `json:"inputs"`
	Options requestOptions `json:"options"`
}

type pairInputs struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

// PairClassify scores a sentence pair with a cross-encoder, returning
// NLI label scores (contradiction, neutral, entailment).
func (c *Client) PairClassify(ctx context.Context, model, text, textPair string) ([]LabelScore, error) {
	req := pairClassifyRequest{
		Inputs:  pairInputs{Text: text, TextPair: textPair},
		Options: requestOptions{WaitForModel: true},
	}

	var resp [][]LabelScore
	if err := c.post(ctx, model, req, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("empty classification response")
	}
	return resp[0], nil
}

// Warmup forces the remote model to load by sending a minimal request
// with wait_for_model set. This is the heavy step behind an
// evaluator's lazy initialization.
func (c *Client) Warmup(ctx context.Context, model string) error {
	req := textClassifyRequest{
		Inputs:  "ok",
		Options: requestOptions{WaitForModel: true},
	}

	var raw json.RawMessage
	if err := c.post(ctx, model, req, &raw); err != nil {
		return fmt.Errorf("warmup %s: %w", model, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, model string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference API returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
