package policy

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeChat struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeChat) Chat(ctx context.Context, preamble, message string) (string, error) {
	f.prompts = append(f.prompts, message)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestExtractPolicyDetailsParsesJSONWithCommentary(t *testing.T) {
	chat := &fakeChat{response: `Sure, here are the extracted fields:
{
  "name": "Jane Tan",
  "policy_number": "POL-2024-001",
  "policy_category": "health",
  "issuer_name": "Acme Insurance",
  "start_date": "2024-01-01",
  "end_date": "2025-01-01",
  "premium_amount": "$120/month",
  "coverage_amount": "$500,000",
  "contact_info": "N/A"
}
Let me know if you need anything else.`}

	client := NewClient(chat)
	fields := client.ExtractPolicyDetails(context.Background(), "policy document text")
	if fields == nil {
		t.Fatal("expected parsed fields")
	}
	if fields.Name != "Jane Tan" {
		t.Fatalf("unexpected name: %q", fields.Name)
	}
	if fields.PolicyNumber != "POL-2024-001" {
		t.Fatalf("unexpected policy number: %q", fields.PolicyNumber)
	}
	if fields.PremiumAmount != "$120/month" {
		t.Fatalf("unexpected premium: %q", fields.PremiumAmount)
	}
	if fields.ContactInfo != "N/A" {
		t.Fatalf("unexpected contact info: %q", fields.ContactInfo)
	}
}

func TestExtractPolicyDetailsNoJSONReturnsNil(t *testing.T) {
	chat := &fakeChat{response: "I could not find any policy details in that text."}

	client := NewClient(chat)
	if fields := client.ExtractPolicyDetails(context.Background(), "irrelevant"); fields != nil {
		t.Fatalf("expected nil for response without JSON, got %+v", fields)
	}
}

func TestExtractPolicyDetailsMalformedJSONReturnsNil(t *testing.T) {
	chat := &fakeChat{response: `{"name": "Jane", "policy_number": }`}

	client := NewClient(chat)
	if fields := client.ExtractPolicyDetails(context.Background(), "text"); fields != nil {
		t.Fatalf("expected nil for malformed JSON, got %+v", fields)
	}
}

func TestExtractPolicyDetailsServiceErrorReturnsNil(t *testing.T) {
	chat := &fakeChat{err: errors.New("rate limited")}

	client := NewClient(chat)
	if fields := client.ExtractPolicyDetails(context.Background(), "text"); fields != nil {
		t.Fatalf("expected nil on service error, got %+v", fields)
	}
}

func TestBuildPromptEmbedsTextAndFields(t *testing.T) {
	prompt := buildPrompt("the insured party is Jane Tan")

	if !strings.Contains(prompt, "Text: the insured party is Jane Tan") {
		t.Fatalf("expected input text embedded verbatim, got:\n%s", prompt)
	}
	for _, field := range []string{
		"name", "policy_number", "policy_category", "issuer_name",
		"start_date", "end_date", "premium_amount", "coverage_amount", "contact_info",
	} {
		if !strings.Contains(prompt, field) {
			t.Fatalf("expected prompt to name field %q", field)
		}
	}
	if !strings.Contains(prompt, "N/A") {
		t.Fatal("expected prompt to instruct N/A for absent fields")
	}
}

func TestExtractPolicyDetailsSendsPromptNotRawText(t *testing.T) {
	chat := &fakeChat{response: `{"name": "N/A"}`}

	client := NewClient(chat)
	client.ExtractPolicyDetails(context.Background(), "raw input")

	if len(chat.prompts) != 1 {
		t.Fatalf("expected one chat call, got %d", len(chat.prompts))
	}
	if !strings.Contains(chat.prompts[0], "Extract the following information") {
		t.Fatalf("expected templated prompt, got: %s", chat.prompts[0])
	}
}
