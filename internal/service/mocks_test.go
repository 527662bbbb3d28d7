package service_test

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/unclebandit/coldreach/internal/llm"
	"github.com/unclebandit/coldreach/internal/model"
)

// --- Mock LLM ---

type MockLLM struct {
	mu       sync.Mutex
	calls    int
	requests []llm.Request
	content  string
	err      error
}

func (m *MockLLM) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Response{Content: m.content}, nil
}

func (m *MockLLM) Model() string { return "gpt-4o" }

func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Mock License Validator ---

type MockValidator struct {
	calls   int
	keys    []string
	verdict *model.LicenseVerdict
	err     error
}

func (m *MockValidator) Validate(ctx context.Context, key string) (*model.LicenseVerdict, error) {
	m.calls++
	m.keys = append(m.keys, key)
	if m.err != nil {
		return nil, m.err
	}
	return m.verdict, nil
}

// --- Mock Artifact Repository ---

type MockArtifactRepo struct {
	mu        sync.Mutex
	created   [][]byte
	deleted   []string
	createErr error
	cutoffs   []time.Time
	evict     int
}

func (m *MockArtifactRepo) Create(ctx context.Context, data []byte) (*model.PdfArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, data)
	return &model.PdfArtifact{Key: "artifact.pdf", Size: int64(len(data))}, nil
}

func (m *MockArtifactRepo) Open(ctx context.Context, key string) (*os.File, error) {
	return nil, os.ErrNotExist
}

func (m *MockArtifactRepo) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockArtifactRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.evict, nil
}

func (m *MockArtifactRepo) Cutoffs() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.cutoffs...)
}
