package aidraft

import (
	"fmt"
	"strings"
)

// DraftInput is the denormalized dispute summary embedded into the prompt.
type DraftInput struct {
	DisputeID      string
	OrderName      string
	Amount         string
	Currency       string
	Reason         string
	Status         string
	RawPayloadJSON string
}

// maxRawPayloadChars bounds how much raw payload goes into the prompt so the
// request stays inside the token budget.
const maxRawPayloadChars = 4000

// BuildPrompt composes the fixed response-drafting prompt from a dispute
// summary.
func BuildPrompt(in DraftInput) string {
	raw := in.RawPayloadJSON
	if len(raw) > maxRawPayloadChars {
		raw = raw[:maxRawPayloadChars]
	}

	reason := in.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "(not provided)"
	}
	order := in.OrderName
	if strings.TrimSpace(order) == "" {
		order = "(unknown order)"
	}

	return fmt.Sprintf(`You are an expert at writing merchant responses to payment disputes and chargebacks.

Write a professional, factual dispute response the merchant can submit as evidence. Rules:
- Address the dispute reason directly.
- Reference the order and amount where relevant.
- Do not invent facts that are not present in the dispute data.
- Keep a polite, confident tone. No legal threats.
- Return plain text only, no markdown.

DISPUTE ID: %s
ORDER: %s
AMOUNT: %s %s
REASON: %s
STATUS: %s

RAW DISPUTE DATA:
%s

Response draft:`, in.DisputeID, order, in.Amount, in.Currency, reason, in.Status, raw)
}
