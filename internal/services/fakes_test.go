package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// callLog records tier invocations in order across fakes
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.calls...)
}

type fakeSource struct {
	name string
	html string
	err  error
	log  *callLog
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchPage(_ context.Context, _ string) (string, error) {
	if f.log != nil {
		f.log.add(f.name)
	}
	return f.html, f.err
}

type fakeParser struct {
	name   string
	record *models.EventRecord
	err    error
	log    *callLog
}

func (f *fakeParser) Name() string { return f.name }

func (f *fakeParser) Parse(_ context.Context, _, _ string) (*models.EventRecord, error) {
	if f.log != nil {
		f.log.add(f.name)
	}
	if f.record == nil {
		return nil, f.err
	}
	copied := *f.record
	return &copied, f.err
}

// fakeCompleter answers every chat completion with a fixed message
type fakeCompleter struct {
	content  string
	err      error
	requests []openai.ChatCompletionRequest
	log      *callLog
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.log != nil {
		f.log.add("llm")
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
		Usage: openai.Usage{TotalTokens: 1200},
	}, nil
}

type fakeDomainFinder struct {
	domain string
	err    error
	calls  []string
}

func (f *fakeDomainFinder) Discover(_ context.Context, name string) (string, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return "", f.err
	}
	if f.domain == "" {
		return "", ErrDomainNotFound
	}
	return f.domain, nil
}

type fakeEmailFinder struct {
	emails []HunterEmail
	err    error
	calls  []string
}

func (f *fakeEmailFinder) DomainSearch(_ context.Context, domain string) ([]HunterEmail, error) {
	f.calls = append(f.calls, domain)
	return f.emails, f.err
}

// flakyContactStore fails UpsertContact for emails containing failOn
type flakyContactStore struct {
	*MemoryStore
	failOn string
}

func (s *flakyContactStore) UpsertContact(ctx context.Context, userID, organizerID string, c models.ContactCandidate) (*models.Contact, bool, error) {
	if s.failOn != "" && strings.Contains(c.Email, s.failOn) {
		return nil, false, errors.New("write throttled")
	}
	return s.MemoryStore.UpsertContact(ctx, userID, organizerID, c)
}

// pageHTML pads a body so it passes the minimum page size check
func pageHTML(body string) string {
	return "<html><head><title>Evento</title></head><body>" + body + strings.Repeat(" ", minPageBytes) + "</body></html>"
}
