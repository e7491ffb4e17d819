// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/moodchat/moodchat-tui/internal/api"
	"github.com/moodchat/moodchat-tui/internal/realtime"
)

// DefaultPollInterval is the mood poll cadence when none is configured.
const DefaultPollInterval = 5 * time.Second

// =============================================================================
// LIFECYCLE
// =============================================================================

// Lifecycle runs one authenticated session from entry to teardown.
//
// A Lifecycle is single-use: Start brings the session up once, Stop tears
// it down once, and a fresh Lifecycle is built for the next login. Start
// and Stop are both idempotent; a second call is a no-op.
//
// Entry order: the identity check runs first and is the only fatal step.
// Once it passes, the history fetch, the initial mood reading and the
// realtime channel come up, and the mood poller starts ticking. None of
// those steps can abort the session on its own.
type Lifecycle struct {
	id           string
	client       *api.Client
	store        *Store
	send         func(tea.Msg)
	pollInterval time.Duration

	mu      sync.Mutex
	active  bool
	stopped bool
	channel *realtime.Channel
	cancel  context.CancelFunc

	pollerDone chan struct{}
}

// NewLifecycle builds a session lifecycle. The send function delivers
// lifecycle messages to the UI loop; it must be safe to call from
// goroutines (tea.Program.Send is).
func NewLifecycle(client *api.Client, store *Store, send func(tea.Msg), pollInterval time.Duration) *Lifecycle {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Lifecycle{
		id:           uuid.NewString(),
		client:       client,
		store:        store,
		send:         send,
		pollInterval: pollInterval,
		pollerDone:   make(chan struct{}),
	}
}

// ID returns the lifecycle's unique session id. Messages carry it so the
// UI can discard stragglers from a torn-down session.
func (l *Lifecycle) ID() string {
	return l.id
}

// Active reports whether the session is up.
func (l *Lifecycle) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active && !l.stopped
}

// Start brings the session up. The identity check is fatal: on failure the
// credential is cleared and the error returned, and nothing else starts.
// After it passes, the realtime channel is dialed, then the history fetch,
// the initial mood reading and the poller run concurrently, each reporting
// through the send function. Calling Start on a running or stopped
// lifecycle is a no-op.
func (l *Lifecycle) Start(ctx context.Context, token string) error {
	l.mu.Lock()
	if l.active || l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	// Identity check gates everything else.
	ident, err := l.client.Me(ctx, token)
	if err != nil {
		l.store.Clear()
		return fmt.Errorf("identity check: %w", err)
	}
	l.store.Set(token, ident)

	wsURL, err := realtime.URL(l.client.BaseURL(), token)
	if err != nil {
		l.store.Clear()
		return err
	}
	channel, err := realtime.Dial(ctx, wsURL, realtime.Callbacks{
		OnEvent: func(ev realtime.Event) {
			l.send(PushEventMsg{SessionID: l.id, Event: ev})
		},
		OnFatal: func(err error) {
			l.send(ChannelDownMsg{SessionID: l.id, Err: err})
		},
	})
	if err != nil {
		l.store.Clear()
		return fmt.Errorf("realtime channel: %w", err)
	}

	pollCtx, cancel := context.WithCancel(context.Background())

	l.mu.Lock()
	if l.stopped {
		// Stop raced us; unwind what we just brought up.
		l.mu.Unlock()
		cancel()
		channel.Close()
		l.store.Clear()
		close(l.pollerDone)
		return nil
	}
	l.active = true
	l.channel = channel
	l.cancel = cancel
	l.mu.Unlock()

	go l.fetchHistory(pollCtx, token)
	go l.pollMood(pollCtx, token)

	return nil
}

// Send relays one outbound message through the realtime channel.
func (l *Lifecycle) Send(text string) error {
	l.mu.Lock()
	channel := l.channel
	l.mu.Unlock()
	if channel == nil {
		return realtime.ErrNotOpen
	}
	return channel.Send(text)
}

// Stop is the single teardown funnel: it closes the channel, stops the
// poller and wipes the credential, in that order, exactly once. Every
// session exit path (logout, channel failure, credential rejection) goes
// through here, so teardown happens as one unit no matter what triggered
// it. Safe to call at any time, any number of times.
func (l *Lifecycle) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	wasActive := l.active
	l.active = false
	channel := l.channel
	cancel := l.cancel
	l.mu.Unlock()

	if channel != nil {
		channel.Close()
	}
	if cancel != nil {
		cancel()
	}
	l.store.Clear()
	if wasActive {
		<-l.pollerDone
	}
}

// =============================================================================
// BACKGROUND WORK
// =============================================================================

// fetchHistory loads the message history once, at session entry. A failure
// is reported but not fatal; live messages still flow.
func (l *Lifecycle) fetchHistory(ctx context.Context, token string) {
	msgs, err := l.client.Messages(ctx, token)
	if err != nil {
		if ctx.Err() == nil {
			l.send(HistoryFailedMsg{SessionID: l.id, Err: err})
		}
		return
	}
	l.send(HistoryLoadedMsg{SessionID: l.id, Messages: msgs})
}

// pollMood reads the room mood immediately and then on every tick until
// teardown. A failed poll keeps the previous reading; the next tick tries
// again. The ticker goroutine is the only writer of pollerDone.
func (l *Lifecycle) pollMood(ctx context.Context, token string) {
	defer close(l.pollerDone)

	poll := func() {
		snap, err := l.client.Mood(ctx, token)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("[session] mood poll failed: %v", err)
			}
			return
		}
		l.send(MoodUpdatedMsg{SessionID: l.id, Mood: snap.Mood})
	}

	poll()
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
