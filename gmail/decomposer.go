package gmail

import (
	gmailapi "google.golang.org/api/gmail/v1"

	"policyminer/types"
)

// AttachmentRef describes one attachment part whose content is fetched by a
// separate provider call.
type AttachmentRef struct {
	AttachmentID string
	Filename     string
	MediaType    string
}

// Decompose walks a message's part tree and separates its plain-text body
// from its attachment descriptors, in declared part order.
//
// Attachment descriptors are collected from the whole tree, not just the top
// level, so a multipart container nesting its attachments still classifies
// the message and yields every ref. The body is the first filename-less part
// carrying inline data, preferring text/plain; a message with attachments but
// no plain-body sub-part yields a nil Body.
func Decompose(parts []*gmailapi.MessagePart, messageID, subject string) (*types.Message, []AttachmentRef) {
	msg := &types.Message{ID: messageID, Subject: subject}
	if body, ok := inlineBody(parts); ok {
		msg.Body = &body
	}
	return msg, collectAttachmentRefs(parts)
}

// collectAttachmentRefs gathers every part with a filename, depth-first.
func collectAttachmentRefs(parts []*gmailapi.MessagePart) []AttachmentRef {
	var refs []AttachmentRef
	for _, p := range parts {
		if p.Filename != "" {
			ref := AttachmentRef{Filename: p.Filename, MediaType: p.MimeType}
			if p.Body != nil {
				ref.AttachmentID = p.Body.AttachmentId
			}
			refs = append(refs, ref)
			continue
		}
		refs = append(refs, collectAttachmentRefs(p.Parts)...)
	}
	return refs
}

// inlineBody finds the message's plain-text body among the given parts,
// preferring a text/plain part and falling back to any filename-less part
// carrying inline data. Container parts are searched depth-first.
func inlineBody(parts []*gmailapi.MessagePart) (string, bool) {
	if body, ok := findInline(parts, true); ok {
		return body, true
	}
	return findInline(parts, false)
}

func findInline(parts []*gmailapi.MessagePart, plainOnly bool) (string, bool) {
	for _, p := range parts {
		if p.Filename != "" {
			continue
		}
		if p.Body != nil && p.Body.Data != "" && (!plainOnly || p.MimeType == "text/plain") {
			if decoded, err := decodeBase64(p.Body.Data); err == nil {
				return string(decoded), true
			}
		}
		if len(p.Parts) > 0 {
			if body, ok := findInline(p.Parts, plainOnly); ok {
				return body, true
			}
		}
	}
	return "", false
}
