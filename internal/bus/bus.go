// Package bus broadcasts watch-mode batch lifecycle events over NATS so an
// external listener (an editor plugin, a CI dashboard) can follow
// sveltecheck's --watch runs without scraping stdout. It is optional:
// sveltecheck runs fine with no NATS URL configured, same as the
// teacher's graph.PublishProposal graceful-degradation-on-nil-client
// pattern.
//
// Event field names and the Start/Complete/Failure lifecycle are grounded
// on the tylergannon-svelte-check-server reference interpreter's
// SvelteWatchCheckStart/Complete/Failure structs (SPEC_FULL.md SUPPLEMENTED
// FEATURES), the only reference in the pack that models a watch-mode check
// cycle as discrete events. Unlike that reference (which parses these
// events back out of a subprocess's stdout), here sveltecheck is the
// producer: the orchestrator emits them directly after computing each
// batch, no parsing involved.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subject is the NATS subject sveltecheck publishes batch events to.
const Subject = "sveltecheck.watch.events"

// Start is published when a watch-mode batch begins processing.
type Start struct {
	Timestamp  int64  `json:"timestamp"`
	Generation string `json:"generation"`
	Workspace  string `json:"workspace"`
}

// Complete is published when a batch finishes, carrying the same
// aggregate counts the human/json formatters compute.
type Complete struct {
	Timestamp         int64  `json:"timestamp"`
	Generation        string `json:"generation"`
	FileCount         int    `json:"fileCount"`
	ErrorCount        int    `json:"errorCount"`
	WarningCount      int    `json:"warningCount"`
	FilesWithProblems int    `json:"filesWithProblems"`
}

// Failure is published when a batch could not be completed (a subprocess
// collaborator died, discovery failed, or the like).
type Failure struct {
	Timestamp  int64  `json:"timestamp"`
	Generation string `json:"generation"`
	Message    string `json:"message"`
}

// Publisher wraps a NATS connection scoped to publishing batch events. A
// nil *Publisher is valid and every method on it is a no-op, so callers
// never need a "is bus configured" branch at the call site.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials url and returns a Publisher. An empty url returns (nil,
// nil): watch-mode event broadcasting is opt-in, and a nil Publisher
// degrades to doing nothing, mirroring the teacher's "skip publishing if
// no NATS client" check in graph.PublishProposal.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// Close drains and closes the underlying connection. Safe to call on a
// nil Publisher.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
	p.conn.Close()
}

// PublishStart announces that generation has begun checking workspace.
func (p *Publisher) PublishStart(ctx context.Context, generation, workspace string) error {
	return p.publish(ctx, Start{Timestamp: time.Now().UnixMilli(), Generation: generation, Workspace: workspace})
}

// PublishComplete announces that generation finished with the given
// aggregate counts.
func (p *Publisher) PublishComplete(ctx context.Context, generation string, fileCount, errorCount, warningCount, filesWithProblems int) error {
	return p.publish(ctx, Complete{
		Timestamp:         time.Now().UnixMilli(),
		Generation:        generation,
		FileCount:         fileCount,
		ErrorCount:        errorCount,
		WarningCount:      warningCount,
		FilesWithProblems: filesWithProblems,
	})
}

// PublishFailure announces that generation could not be completed.
func (p *Publisher) PublishFailure(ctx context.Context, generation, message string) error {
	return p.publish(ctx, Failure{Timestamp: time.Now().UnixMilli(), Generation: generation, Message: message})
}

func (p *Publisher) publish(_ context.Context, event any) error {
	if p == nil || p.conn == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal bus event: %w", err)
	}
	return p.conn.Publish(Subject, data)
}
