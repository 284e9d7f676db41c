package triage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSymptoms is returned when analysis is requested with nothing selected.
var ErrNoSymptoms = errors.New("at least one symptom is required")

// validSymptoms guards against tags outside the catalog.
var validSymptoms = func() map[string]bool {
	m := make(map[string]bool, len(Symptoms))
	for _, s := range Symptoms {
		m[s] = true
	}
	return m
}()

// Assistant is the remote classifier used for free-text questions.
type Assistant interface {
	Chat(ctx context.Context, message string) (*ChatResult, error)
}

// ChatResult mirrors the remote service's reply.
type ChatResult struct {
	Text      string
	Specialty string
}

// Service performs local rule-based analysis and proxies free-text chat to
// the remote assistant.
type Service struct {
	assistant Assistant
}

func NewService(assistant Assistant) *Service {
	return &Service{assistant: assistant}
}

// Analyze validates the selected tags and returns the recommended specialty.
func (s *Service) Analyze(symptoms []string) (string, error) {
	if len(symptoms) == 0 {
		return "", ErrNoSymptoms
	}
	for _, sym := range symptoms {
		if !validSymptoms[sym] {
			return "", fmt.Errorf("unknown symptom %q", sym)
		}
	}
	return Match(NewSymptomSet(symptoms)), nil
}

// Chat forwards a free-text message to the remote assistant.
func (s *Service) Chat(ctx context.Context, message string) (*ChatResult, error) {
	if message == "" {
		return nil, errors.New("message is required")
	}
	if s.assistant == nil {
		return nil, errors.New("assistant not configured")
	}
	return s.assistant.Chat(ctx, message)
}
