package assist

import (
	"context"

	"carbcheck/internal/leads"
)

// Scripted is a canned Service for tests and offline demo mode.
type Scripted struct {
	ChatReply   string
	ChatErr     error
	VIN         string
	VINErr      error
	Lead        leads.Lead
	LeadErr     error
	ChatPrompts []string
	ImagesSeen  int
}

var _ Service = (*Scripted)(nil)

func (s *Scripted) Chat(_ context.Context, _ []Message, prompt string) (string, error) {
	s.ChatPrompts = append(s.ChatPrompts, prompt)
	return s.ChatReply, s.ChatErr
}

func (s *Scripted) ExtractVIN(_ context.Context, _ []byte, _ string) (string, error) {
	s.ImagesSeen++
	return s.VIN, s.VINErr
}

func (s *Scripted) ScoutLead(_ context.Context, _ []byte, _ string) (leads.Lead, error) {
	s.ImagesSeen++
	return s.Lead, s.LeadErr
}
