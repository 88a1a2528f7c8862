// Package assist is the boundary to the AI collaborator. Everything
// behind Service is best effort: callers treat failures as recoverable
// and fall back to manual entry.
package assist

import (
	"context"
	"errors"

	"carbcheck/internal/leads"
)

// ErrUnavailable means no assistant is configured (missing API key).
var ErrUnavailable = errors.New("assistant is not configured")

// Message is one turn of an assistant conversation.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// Service answers compliance questions and reads images. Outputs are
// untrusted: a VIN returned by ExtractVIN still goes through the same
// normalization and validation as typed input.
type Service interface {
	// Chat answers a user question given the prior conversation.
	Chat(ctx context.Context, history []Message, prompt string) (string, error)

	// ExtractVIN reads a VIN from a photo of a door jamb sticker,
	// dashboard plate, or registration document.
	ExtractVIN(ctx context.Context, image []byte, mimeType string) (string, error)

	// ScoutLead extracts prospect details from a photo of a truck or
	// fleet yard and drafts an outreach email.
	ScoutLead(ctx context.Context, image []byte, mimeType string) (leads.Lead, error)
}
