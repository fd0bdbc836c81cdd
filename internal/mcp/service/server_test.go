// Package service tests the MCP server wiring.
package service

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/louisbranch/lorekeeper/internal/research/matcher"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
	"github.com/louisbranch/lorekeeper/internal/storage"
)

type memStore struct {
	state storage.State
}

func (m *memStore) LoadState(ctx context.Context) (storage.State, error) {
	return m.state, nil
}

func (m *memStore) SaveState(ctx context.Context, state storage.State) error {
	m.state = state
	return nil
}

func newDeps(t *testing.T) (*tracker.Service, *matcher.Matcher) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	svc, err := tracker.New(tracker.Config{Store: &memStore{}, Logger: logger})
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc, matcher.New(svc, logger)
}

func TestNewRequiresDependencies(t *testing.T) {
	svc, m := newDeps(t)

	if _, err := New(nil, m); err == nil {
		t.Fatal("expected error for missing tracker")
	}
	if _, err := New(svc, nil); err == nil {
		t.Fatal("expected error for missing matcher")
	}
	server, err := New(svc, m)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if server.mcpServer == nil {
		t.Fatal("expected configured MCP server")
	}
}

func TestServeNilServer(t *testing.T) {
	var server *Server
	if err := server.Serve(context.Background()); err == nil {
		t.Fatal("expected error for unconfigured server")
	}
}
