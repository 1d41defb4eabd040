package pipeline

import (
	"context"
	"sync"

	"policyminer/extraction"
	"policyminer/gmail"
	"policyminer/policy"
	"policyminer/types"
)

// Aggregator accumulates one run's extraction records, deduplicating message
// bodies and individual attachments by identity key. All state is scoped to
// the aggregator instance — one per pipeline run, owned by the caller — and
// discarded with it. Safe for concurrent ingestion.
type Aggregator struct {
	extractor policy.Extractor

	mu              sync.Mutex
	seenBodies      map[string]struct{}
	seenAttachments map[string]struct{}
	records         []types.ExtractionRecord
}

// NewAggregator creates an empty run-scoped aggregator.
func NewAggregator(extractor policy.Extractor) *Aggregator {
	return &Aggregator{
		extractor:       extractor,
		seenBodies:      make(map[string]struct{}),
		seenAttachments: make(map[string]struct{}),
	}
}

// Ingest processes every message in the batch, appending records in
// discovery order. Already-seen identities are skipped with no record
// emitted, so re-ingesting the same batch is a strict no-op.
func (a *Aggregator) Ingest(ctx context.Context, batch *gmail.Batch) {
	for _, msg := range batch.AttachmentMails {
		a.ingestMessage(ctx, msg)
	}
	for _, msg := range batch.NormalMails {
		a.ingestMessage(ctx, msg)
	}
}

func (a *Aggregator) ingestMessage(ctx context.Context, msg *types.Message) {
	// Messages with attachments but no plain-body sub-part skip body handling.
	if msg.Body != nil && a.markSeen(a.seenBodies, types.BodyIdentity(msg.ID)) {
		a.append(types.ExtractionRecord{
			MessageID: msg.ID,
			Extracted: a.extractor.ExtractPolicyDetails(ctx, *msg.Body),
		})
	}

	for _, att := range msg.Attachments {
		key := types.AttachmentIdentity(msg.ID, att.Filename)
		if !a.markSeen(a.seenAttachments, key) {
			continue
		}

		rec := types.ExtractionRecord{
			MessageID:          msg.ID,
			AttachmentIdentity: key,
			MediaKind:          att.MediaKind,
			Filename:           att.Filename,
		}
		// Unsupported payloads are recorded but never sent for extraction.
		if att.MediaKind != extraction.KindUnsupported {
			rec.Extracted = a.extractor.ExtractPolicyDetails(ctx, att.Content)
		}
		a.append(rec)
	}
}

// Records returns a copy of the ordered output collection so far.
func (a *Aggregator) Records() []types.ExtractionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]types.ExtractionRecord, len(a.records))
	copy(out, a.records)
	return out
}

// markSeen records the identity key, returning false when it was already
// present. The identity is marked before extraction so a failed extraction
// is not retried within the run.
func (a *Aggregator) markSeen(set map[string]struct{}, key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := set[key]; ok {
		return false
	}
	set[key] = struct{}{}
	return true
}

func (a *Aggregator) append(rec types.ExtractionRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}
