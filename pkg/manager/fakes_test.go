package manager

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// The fakes embed the upstream interfaces so only the methods the adapter
// touches need implementations.

type fakeServer struct {
	neo4j.ServerInfo
	agent    string
	protocol db.ProtocolVersion
}

func (s *fakeServer) Agent() string { return s.agent }

func (s *fakeServer) ProtocolVersion() db.ProtocolVersion { return s.protocol }

type fakeSummary struct {
	neo4j.ResultSummary
	server neo4j.ServerInfo
}

func (s *fakeSummary) Server() neo4j.ServerInfo { return s.server }

type fakeResult struct {
	neo4j.ResultWithContext
	summary    neo4j.ResultSummary
	consumeErr error
}

func (r *fakeResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) {
	if r.consumeErr != nil {
		return nil, r.consumeErr
	}
	return r.summary, nil
}

// fakeSession scripts Run outcomes per call: entry i of runErrs is returned by
// the i-th Run; a nil entry (or running past the slice) succeeds with the
// configured server info.
type fakeSession struct {
	mu       sync.Mutex
	runErrs  []error
	agent    string
	protocol db.ProtocolVersion

	runCount   int
	closeCount int
	closeErr   error
}

func (s *fakeSession) Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error) {
	s.mu.Lock()
	idx := s.runCount
	s.runCount++
	s.mu.Unlock()

	if idx < len(s.runErrs) && s.runErrs[idx] != nil {
		return nil, s.runErrs[idx]
	}
	return &fakeResult{summary: &fakeSummary{server: &fakeServer{agent: s.agent, protocol: s.protocol}}}, nil
}

func (s *fakeSession) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCount++
	return s.closeErr
}

func (s *fakeSession) closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCount
}

func healthySession() *fakeSession {
	return &fakeSession{
		agent:    "Neo4j/5.20.0",
		protocol: db.ProtocolVersion{Major: 5, Minor: 8},
	}
}
