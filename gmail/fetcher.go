package gmail

import (
	"context"
	"fmt"
	"log"
	"sync"

	gmailapi "google.golang.org/api/gmail/v1"

	"policyminer/config"
	"policyminer/extraction"
	"policyminer/types"
)

// Batch groups one run's fetched messages into the two ingestion classes.
type Batch struct {
	AttachmentMails []*types.Message `json:"attachment_mails"`
	NormalMails     []*types.Message `json:"normal_mails"`
}

// Empty reports whether the search matched nothing.
func (b *Batch) Empty() bool {
	return len(b.AttachmentMails) == 0 && len(b.NormalMails) == 0
}

// Fetcher retrieves matched messages from the mail provider and routes every
// attachment payload through the extraction registry.
type Fetcher struct {
	provider Provider
	registry *extraction.Registry
}

// NewFetcher creates a fetcher over the given provider and registry.
func NewFetcher(provider Provider, registry *extraction.Registry) *Fetcher {
	return &Fetcher{provider: provider, registry: registry}
}

// FetchMessages runs one search and assembles the ingestion batch. All
// matched payloads are fetched concurrently; attachments within one message
// are processed sequentially in declared order. Per-message failures are
// logged and skipped, never aborting sibling messages.
func (f *Fetcher) FetchMessages(ctx context.Context, query string, maxResults int64) (*Batch, error) {
	ids, err := f.provider.SearchMessageIDs(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	if len(ids) == 0 {
		log.Println("No emails found.")
		return &Batch{}, nil
	}

	batch := &Batch{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			msg, hasAttachments, err := f.fetchOne(ctx, id)
			if err != nil {
				log.Printf("Warning: failed to process message %s: %v", id, err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if hasAttachments {
				batch.AttachmentMails = append(batch.AttachmentMails, msg)
			} else {
				batch.NormalMails = append(batch.NormalMails, msg)
			}
		}(id)
	}

	wg.Wait()
	return batch, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, id string) (*types.Message, bool, error) {
	full, err := f.provider.GetMessage(ctx, id)
	if err != nil {
		return nil, false, err
	}

	subject := subjectHeader(full)
	log.Printf("Processing message: %s", subject)

	if full.Payload == nil {
		return &types.Message{ID: id, Subject: subject}, false, nil
	}

	msg, refs := Decompose(full.Payload.Parts, id, subject)
	for _, ref := range refs {
		att, ok := f.fetchAttachment(ctx, id, ref)
		if !ok {
			continue
		}
		msg.Attachments = append(msg.Attachments, att)
	}
	return msg, len(refs) > 0, nil
}

// fetchAttachment pulls one attachment's bytes and extracts its text.
// Fetch and OCR failures are isolated to this attachment.
func (f *Fetcher) fetchAttachment(ctx context.Context, messageID string, ref AttachmentRef) (types.Attachment, bool) {
	att := types.Attachment{AttachmentID: ref.AttachmentID, Filename: ref.Filename}

	data, err := f.provider.GetAttachment(ctx, messageID, ref.AttachmentID)
	if err != nil {
		log.Printf("Warning: failed to fetch attachment %q on message %s: %v", ref.Filename, messageID, err)
		return att, false
	}

	log.Printf("Processing attachment: %s", ref.MediaType)
	result := f.registry.Extract(data, ref.MediaType)
	att.MediaKind = result.Kind
	att.Content = result.Text
	if result.Err != nil {
		log.Printf("Warning: extraction failed for attachment %q: %v", ref.Filename, result.Err)
		att.Content = extraction.ImageFailureSentinel
	}
	return att, true
}

// subjectHeader extracts the Subject header, defaulting when absent.
func subjectHeader(msg *gmailapi.Message) string {
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			if h.Name == "Subject" && h.Value != "" {
				return h.Value
			}
		}
	}
	return config.DefaultSubject
}
