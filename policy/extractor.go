package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"policyminer/config"
	"policyminer/types"
)

// Extractor turns one unit of plain text into structured policy fields.
// Implementations return nil on any failure; a failed extraction never
// aborts ingestion.
type Extractor interface {
	ExtractPolicyDetails(ctx context.Context, text string) *types.StructuredFields
}

// ChatService is the single-turn completion call behind the extractor.
type ChatService interface {
	Chat(ctx context.Context, preamble, message string) (string, error)
}

const systemPreamble = "You are a helpful assistant that extracts policy details from text."

// buildPrompt embeds the input text verbatim and names the nine required
// fields, instructing the service to answer "N/A" for any absent field and
// to return only a JSON object.
func buildPrompt(text string) string {
	return fmt.Sprintf(`Extract the following information from the given text and return it in valid JSON format. If any field is not present, use N/A as the value. Extract these fields:
- name: The name of the policyholder or relevant entity.
- policy_number: The unique policy identifier.
- policy_category: The type or category of the policy (e.g., health, life, auto).
- issuer_name: The organization or issuer of the policy.
- start_date: The policy's start date.
- end_date: The policy's end date (if applicable).
- premium_amount: The amount of the premium (if stated).
- coverage_amount: The coverage amount provided by the policy.
- contact_info: Any contact details (phone, email, or address)

Text: %s

Return only valid JSON Format`, text)
}

// jsonSpanRe locates the first {...} span in the response, greedy and
// spanning newlines.
var jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

// Client submits text to the completion service and parses the response
// into a typed record.
type Client struct {
	chat ChatService
}

// NewClient creates an extraction client over the given chat service.
func NewClient(chat ChatService) *Client {
	return &Client{chat: chat}
}

// NewClientFromEnv creates an extraction client backed by Cohere.
// Required: COHERE_API_KEY. Optional: COMPLETION_MODEL.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("COHERE_API_KEY is not set")
	}
	model := os.Getenv("COMPLETION_MODEL")
	if model == "" {
		model = config.CompletionModel
	}
	return NewClient(NewCohereChat(apiKey, model)), nil
}

// ExtractPolicyDetails sends the text to the completion service and parses
// the first JSON object in its reply. Service failure, a reply without JSON,
// and a malformed object all log locally and return nil — errors never
// propagate past this boundary.
func (c *Client) ExtractPolicyDetails(ctx context.Context, text string) *types.StructuredFields {
	raw, err := c.chat.Chat(ctx, systemPreamble, buildPrompt(text))
	if err != nil {
		log.Printf("Error extracting policy details: %v", err)
		return nil
	}

	span := jsonSpanRe.FindString(raw)
	if span == "" {
		log.Printf("Error extracting policy details: no valid JSON block found in the response")
		return nil
	}

	var fields types.StructuredFields
	if err := json.Unmarshal([]byte(strings.TrimSpace(span)), &fields); err != nil {
		log.Printf("Error parsing JSON: %v", err)
		return nil
	}
	return &fields
}

// CohereChat implements ChatService using the Cohere chat API.
// Docs: https://docs.cohere.com/reference/chat
// SDK: github.com/cohere-ai/cohere-go/v2
type CohereChat struct {
	client *cohereclient.Client
	model  string
}

// NewCohereChat creates a chat client for the given model.
func NewCohereChat(apiKey, model string) *CohereChat {
	httpClient := &http.Client{Timeout: config.CompletionTimeout}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereChat{client: client, model: model}
}

// Chat sends one single-turn request with a fixed system preamble.
func (c *CohereChat) Chat(ctx context.Context, preamble, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.CompletionTimeout)
	defer cancel()

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:  message,
		Model:    &c.model,
		Preamble: &preamble,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", errors.New("cohere chat returned empty response")
	}
	return resp.Text, nil
}
