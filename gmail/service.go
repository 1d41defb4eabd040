package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"policyminer/config"
)

// Provider describes the minimal mail provider functionality required by the
// fetcher. The production implementation wraps the Gmail API; tests supply
// fakes.
type Provider interface {
	SearchMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmailapi.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// Service implements Provider over the Gmail REST API for the authorized
// user's mailbox.
type Service struct {
	svc *gmailapi.Service
}

// NewService wraps a pre-authorized HTTP client. The client is treated as an
// opaque capability; token refresh is the concern of whoever produced it.
func NewService(ctx context.Context, client *http.Client) (*Service, error) {
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Service{svc: svc}, nil
}

// NewServiceFromEnv builds a Gmail client from OAuth material saved by an
// external authorization flow.
// Required files: GMAIL_CREDENTIALS_FILE (default credentials.json) and
// GMAIL_TOKEN_FILE (default token.json).
func NewServiceFromEnv(ctx context.Context) (*Service, error) {
	credsPath := getEnvOrDefault("GMAIL_CREDENTIALS_FILE", "credentials.json")
	tokenPath := getEnvOrDefault("GMAIL_TOKEN_FILE", "token.json")

	credsJSON, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(credsJSON, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	tokenJSON, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return NewService(ctx, oauthCfg.Client(ctx, &token))
}

// SearchMessageIDs issues one search query and returns the matched message
// IDs. Zero matches is not an error.
func (s *Service) SearchMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	res, err := s.svc.Users.Messages.List("me").Q(query).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage fetches one full message payload.
func (s *Service) GetMessage(ctx context.Context, id string) (*gmailapi.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	msg, err := s.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return msg, nil
}

// GetAttachment fetches and decodes one attachment's raw bytes.
func (s *Service) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	res, err := s.svc.Users.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}
	return decodeBase64(res.Data)
}

// decodeBase64 handles the encodings the provider uses in transit: base64url
// with or without padding, falling back to standard base64.
func decodeBase64(data string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(data)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
