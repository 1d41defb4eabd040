package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"

	"policyminer/config"
	"policyminer/extraction"
)

type fakeProvider struct {
	ids         []string
	searchErr   error
	messages    map[string]*gmailapi.Message
	attachments map[string][]byte
}

func (f *fakeProvider) SearchMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.ids, nil
}

func (f *fakeProvider) GetMessage(ctx context.Context, id string) (*gmailapi.Message, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, errors.New("message not found")
	}
	return msg, nil
}

func (f *fakeProvider) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	data, ok := f.attachments[attachmentID]
	if !ok {
		return nil, errors.New("attachment not found")
	}
	return data, nil
}

func textMessage(subject, body string) *gmailapi.Message {
	return &gmailapi.Message{
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{{Name: "Subject", Value: subject}},
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "text/plain",
					Body:     &gmailapi.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte(body))},
				},
			},
		},
	}
}

func TestFetchMessagesNoMatchesShortCircuits(t *testing.T) {
	provider := &fakeProvider{}
	fetcher := NewFetcher(provider, extraction.NewRegistry())

	batch, err := fetcher.FetchMessages(context.Background(), "coverage", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !batch.Empty() {
		t.Fatalf("expected empty batch, got %+v", batch)
	}
}

func TestFetchMessagesSearchErrorPropagates(t *testing.T) {
	provider := &fakeProvider{searchErr: errors.New("quota exceeded")}
	fetcher := NewFetcher(provider, extraction.NewRegistry())

	if _, err := fetcher.FetchMessages(context.Background(), "coverage", 3); err == nil {
		t.Fatal("expected search error to propagate")
	}
}

func TestFetchMessagesClassifiesBatch(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1", "m2"},
		messages: map[string]*gmailapi.Message{
			"m1": textMessage("Plain mail", "no attachments here"),
			"m2": {
				Payload: &gmailapi.MessagePart{
					Headers: []*gmailapi.MessagePartHeader{{Name: "Subject", Value: "With attachment"}},
					Parts: []*gmailapi.MessagePart{
						{
							Filename: "notes.txt",
							MimeType: "text/plain",
							Body:     &gmailapi.MessagePartBody{AttachmentId: "att-1"},
						},
					},
				},
			},
		},
		attachments: map[string][]byte{
			"att-1": []byte("premium amount: $120"),
		},
	}
	fetcher := NewFetcher(provider, extraction.NewRegistry())

	batch, err := fetcher.FetchMessages(context.Background(), "coverage", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.NormalMails) != 1 {
		t.Fatalf("expected 1 normal mail, got %d", len(batch.NormalMails))
	}
	if len(batch.AttachmentMails) != 1 {
		t.Fatalf("expected 1 attachment mail, got %d", len(batch.AttachmentMails))
	}

	mail := batch.AttachmentMails[0]
	if mail.ID != "m2" {
		t.Fatalf("unexpected attachment mail ID: %s", mail.ID)
	}
	if len(mail.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(mail.Attachments))
	}
	att := mail.Attachments[0]
	if att.Filename != "notes.txt" {
		t.Fatalf("unexpected filename: %s", att.Filename)
	}
	if att.MediaKind != extraction.KindText {
		t.Fatalf("unexpected media kind: %s", att.MediaKind)
	}
	if att.Content != "premium amount: $120" {
		t.Fatalf("unexpected content: %q", att.Content)
	}
}

func TestFetchMessagesSkipsFailedMessages(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"good", "missing"},
		messages: map[string]*gmailapi.Message{
			"good": textMessage("Still processed", "sibling survives"),
		},
	}
	fetcher := NewFetcher(provider, extraction.NewRegistry())

	batch, err := fetcher.FetchMessages(context.Background(), "coverage", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.NormalMails) != 1 {
		t.Fatalf("expected the surviving mail only, got %d", len(batch.NormalMails))
	}
	if batch.NormalMails[0].ID != "good" {
		t.Fatalf("unexpected mail ID: %s", batch.NormalMails[0].ID)
	}
}

func TestFetchMessagesSkipsFailedAttachmentFetch(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1"},
		messages: map[string]*gmailapi.Message{
			"m1": {
				Payload: &gmailapi.MessagePart{
					Parts: []*gmailapi.MessagePart{
						{
							Filename: "gone.pdf",
							MimeType: "application/pdf",
							Body:     &gmailapi.MessagePartBody{AttachmentId: "att-missing"},
						},
						{
							Filename: "here.txt",
							MimeType: "text/plain",
							Body:     &gmailapi.MessagePartBody{AttachmentId: "att-ok"},
						},
					},
				},
			},
		},
		attachments: map[string][]byte{
			"att-ok": []byte("present"),
		},
	}
	fetcher := NewFetcher(provider, extraction.NewRegistry())

	batch, err := fetcher.FetchMessages(context.Background(), "coverage", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.AttachmentMails) != 1 {
		t.Fatalf("expected 1 attachment mail, got %d", len(batch.AttachmentMails))
	}
	mail := batch.AttachmentMails[0]
	if len(mail.Attachments) != 1 {
		t.Fatalf("expected the fetchable attachment only, got %d", len(mail.Attachments))
	}
	if mail.Attachments[0].Filename != "here.txt" {
		t.Fatalf("unexpected surviving attachment: %s", mail.Attachments[0].Filename)
	}
}

func TestFetchMessagesRecordsSentinelOnOCRFailure(t *testing.T) {
	provider := &fakeProvider{
		ids: []string{"m1", "m2"},
		messages: map[string]*gmailapi.Message{
			"m1": {
				Payload: &gmailapi.MessagePart{
					Parts: []*gmailapi.MessagePart{
						{
							Filename: "scan.png",
							MimeType: "image/png",
							Body:     &gmailapi.MessagePartBody{AttachmentId: "att-img"},
						},
						{
							Filename: "notes.txt",
							MimeType: "text/plain",
							Body:     &gmailapi.MessagePartBody{AttachmentId: "att-txt"},
						},
					},
				},
			},
			"m2": textMessage("Sibling mail", "unaffected"),
		},
		attachments: map[string][]byte{
			"att-img": []byte("not really an image"),
			"att-txt": []byte("readable text"),
		},
	}

	registry := extraction.NewRegistry()
	registry.Register("image/png", func(content []byte) extraction.Result {
		return extraction.Result{Kind: extraction.KindImage, Err: extraction.ErrOCR}
	})
	fetcher := NewFetcher(provider, registry)

	batch, err := fetcher.FetchMessages(context.Background(), "coverage", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.AttachmentMails) != 1 {
		t.Fatalf("expected 1 attachment mail, got %d", len(batch.AttachmentMails))
	}

	mail := batch.AttachmentMails[0]
	if len(mail.Attachments) != 2 {
		t.Fatalf("expected the failed attachment to survive alongside its sibling, got %d", len(mail.Attachments))
	}

	img := mail.Attachments[0]
	if img.Filename != "scan.png" {
		t.Fatalf("unexpected first attachment: %s", img.Filename)
	}
	if img.MediaKind != extraction.KindImage {
		t.Fatalf("unexpected media kind: %s", img.MediaKind)
	}
	if img.Content != extraction.ImageFailureSentinel {
		t.Fatalf("expected image sentinel, got %q", img.Content)
	}

	txt := mail.Attachments[1]
	if txt.Content != "readable text" {
		t.Fatalf("expected sibling attachment untouched, got %q", txt.Content)
	}

	if len(batch.NormalMails) != 1 || batch.NormalMails[0].ID != "m2" {
		t.Fatalf("expected sibling message unaffected, got %+v", batch.NormalMails)
	}
}

func TestSubjectHeaderDefaultsWhenAbsent(t *testing.T) {
	tests := []struct {
		name string
		msg  *gmailapi.Message
		want string
	}{
		{"present", textMessage("Coverage update", "body"), "Coverage update"},
		{"empty value", &gmailapi.Message{Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{{Name: "Subject", Value: ""}},
		}}, config.DefaultSubject},
		{"no payload", &gmailapi.Message{}, config.DefaultSubject},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := subjectHeader(tc.msg); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
