/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package connection

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/internal/klog"
	settingspkg "github.com/kurrent-io/kurrentdb-client-go/settings"
)

func newTestSupervisor() *Supervisor {
	s := settingspkg.Default()
	s.Hosts = []endpoint.Endpoint{{Host: "seed", Port: 2113}}
	return &Supervisor{
		settings: s,
		mode:     s.ClusterMode(),
		rng:      rand.New(rand.NewSource(1)),
		log:      klog.Default(),
		msgs:     make(chan supervisorMsg, 4),
	}
}

func TestHandleReuseAcrossConcurrentGetChannel(t *testing.T) {
	sup := newTestSupervisor()
	want := Handle{ID: uuid.New(), Endpoint: endpoint.Endpoint{Host: "a", Port: 1}}
	sup.current = &want

	r1 := make(chan getChannelReply, 1)
	r2 := make(chan getChannelReply, 1)
	sup.handleGetChannel(getChannelMsg{reply: r1})
	sup.handleGetChannel(getChannelMsg{reply: r2})

	a, b := <-r1, <-r2
	if a.err != nil || b.err != nil {
		t.Fatalf("unexpected errors: %v, %v", a.err, b.err)
	}
	if a.handle.ID != want.ID || b.handle.ID != want.ID {
		t.Fatalf("expected both replies to carry handle id %v, got %v and %v", want.ID, a.handle.ID, b.handle.ID)
	}
}

func TestStaleCreateChannelIsNoOp(t *testing.T) {
	sup := newTestSupervisor()
	current := Handle{ID: uuid.New(), Endpoint: endpoint.Endpoint{Host: "a", Port: 1}}
	sup.current = &current

	sup.handleCreateChannel(createChannelMsg{staleID: uuid.New()})

	if sup.current == nil || sup.current.ID != current.ID {
		t.Fatalf("stale CreateChannel must not disturb the current handle, got %+v", sup.current)
	}
}

func TestReconnectOnNotLeaderUsesSeedHintWithoutGossip(t *testing.T) {
	sup := newTestSupervisor()
	current := Handle{ID: uuid.New(), Endpoint: endpoint.Endpoint{Host: "old-leader", Port: 1}}
	sup.current = &current

	var probedCandidate endpoint.Endpoint
	sup.probeFunc = func(_ context.Context, candidate endpoint.Endpoint) (Handle, *errs.Status, error) {
		probedCandidate = candidate
		return Handle{ID: uuid.New(), Endpoint: candidate}, nil, nil
	}

	redirect := endpoint.Endpoint{Host: "new-leader", Port: 2}
	sup.handleCreateChannel(createChannelMsg{staleID: current.ID, seedHint: &redirect})

	if probedCandidate != redirect {
		t.Fatalf("expected probe against seed hint %v, probed %v", redirect, probedCandidate)
	}
	if sup.current == nil || sup.current.Endpoint != redirect {
		t.Fatalf("expected new current handle at %v, got %+v", redirect, sup.current)
	}
}

func TestGetChannelTerminalStatusStopsSupervisor(t *testing.T) {
	sup := newTestSupervisor()
	sup.probeFunc = func(_ context.Context, candidate endpoint.Endpoint) (Handle, *errs.Status, error) {
		status := &errs.Status{Code: errs.StatusPermissionDenied, Message: "denied"}
		return Handle{}, status, status
	}

	reply := make(chan getChannelReply, 1)
	terminal := sup.handleGetChannel(getChannelMsg{reply: reply})
	r := <-reply

	if !terminal {
		t.Fatal("expected a non-recoverable gRPC status to be terminal")
	}
	var statusErr *errs.GrpcStatusError
	if r.err == nil || !errors.As(r.err, &statusErr) {
		t.Fatalf("expected *errs.GrpcStatusError, got %T (%v)", r.err, r.err)
	}
}

func TestMaxDiscoveryAttemptsIsNotTerminal(t *testing.T) {
	sup := newTestSupervisor()
	sup.settings.MaxDiscoverAttempts = 1
	sup.settings.DiscoveryInterval = 0
	sup.probeFunc = func(_ context.Context, candidate endpoint.Endpoint) (Handle, *errs.Status, error) {
		return Handle{}, nil, context.DeadlineExceeded
	}

	reply := make(chan getChannelReply, 1)
	terminal := sup.handleGetChannel(getChannelMsg{reply: reply})
	<-reply

	if terminal {
		t.Fatal("exhausting discovery attempts must not be treated as terminal")
	}
}
