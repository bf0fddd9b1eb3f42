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
	"time"

	"github.com/google/uuid"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/gossip"
	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/internal/klog"
	"github.com/kurrent-io/kurrentdb-client-go/internal/wire"
	"github.com/kurrent-io/kurrentdb-client-go/selector"
	"github.com/kurrent-io/kurrentdb-client-go/settings"
	"github.com/kurrent-io/kurrentdb-client-go/transport"
)

// supervisorMsg is the bounded-cardinality message variant of spec §4.5:
// GetChannel(reply) and CreateChannel(stale_id, seed_hint?).
type supervisorMsg interface{ isSupervisorMsg() }

type getChannelMsg struct {
	reply chan<- getChannelReply
}

func (getChannelMsg) isSupervisorMsg() {}

type getChannelReply struct {
	handle Handle
	err    error
}

type createChannelMsg struct {
	staleID  uuid.UUID
	seedHint *endpoint.Endpoint
}

func (createChannelMsg) isSupervisorMsg() {}

// Supervisor owns all mutable connection state (spec §4.5, §9). It is run
// in its own goroutine via Start; the returned Client is the only way
// callers reach it, and is freely cloneable (it holds nothing but a
// channel send end).
type Supervisor struct {
	settings  settings.Settings
	transport *transport.Transport
	mode      settings.ClusterMode

	rng *rand.Rand

	current          *Handle
	lastKnownMembers []gossip.MemberInfo
	failedEndpoint   *endpoint.Endpoint
	pendingHint      *endpoint.Endpoint

	log  klog.Logger
	msgs chan supervisorMsg

	// probeFunc performs the supported-methods RPC against one candidate;
	// it is a field (defaulting to s.probe) rather than a direct call so
	// tests can substitute a fake acquisition outcome without a live
	// server.
	probeFunc func(ctx context.Context, candidate endpoint.Endpoint) (Handle, *errs.Status, error)
}

// Option configures a Supervisor at Start time.
type Option func(*Supervisor)

// WithLogger overrides the klog.Default() logger the supervisor warns
// through.
func WithLogger(log klog.Logger) Option {
	return func(s *Supervisor) { s.log = log }
}

// WithRand overrides the supervisor's RNG source, for deterministic tests
// of the node selector's tie-breaking (spec §9: "RNG is owned by the
// supervisor").
func WithRand(rng *rand.Rand) Option {
	return func(s *Supervisor) { s.rng = rng }
}

// Start builds a Supervisor for s and tr and launches its goroutine. The
// returned Client is the outward handle; dropping it (and letting it be
// garbage collected) does not itself stop the goroutine — call
// Client.Close (which closes the control channel) for an orderly exit.
func Start(s settings.Settings, tr *transport.Transport, opts ...Option) *Client {
	sup := &Supervisor{
		settings:  s,
		transport: tr,
		mode:      s.ClusterMode(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       klog.Default(),
		msgs:      make(chan supervisorMsg),
	}
	sup.probeFunc = sup.probe
	for _, opt := range opts {
		opt(sup)
	}
	go sup.run()
	return &Client{send: sup.msgs}
}

func (s *Supervisor) run() {
	for msg := range s.msgs {
		var terminal bool
		switch m := msg.(type) {
		case getChannelMsg:
			terminal = s.handleGetChannel(m)
		case createChannelMsg:
			terminal = s.handleCreateChannel(m)
		}
		if terminal {
			// A non-recoverable gRPC status during acquisition is a
			// terminal failure (spec §4.5/state machine): unlike
			// MaxDiscoveryAttemptReached, which just means "try again
			// later", nothing about retrying the same candidates would
			// change, so the supervisor goroutine exits. Closing msgs
			// unblocks any other in-flight senders; Client.Close and
			// Handle.reportFailure both already tolerate a closed channel.
			s.shutdown()
			return
		}
	}
}

func (s *Supervisor) shutdown() {
	defer func() { recover() }()
	close(s.msgs)
}

// isTerminal reports whether err should end the supervisor goroutine
// rather than leave it running to serve a later request.
func isTerminal(err error) bool {
	var status *errs.GrpcStatusError
	return errors.As(err, &status)
}

func (s *Supervisor) handleGetChannel(m getChannelMsg) (terminal bool) {
	if s.current != nil {
		m.reply <- getChannelReply{handle: *s.current}
		return false
	}

	h, err := s.acquire(context.Background())
	if err != nil {
		m.reply <- getChannelReply{err: err}
		return isTerminal(err)
	}
	s.current = &h
	m.reply <- getChannelReply{handle: h}
	return false
}

func (s *Supervisor) handleCreateChannel(m createChannelMsg) (terminal bool) {
	if s.current != nil && m.staleID != s.current.ID {
		// A later error report raced with an already-performed reconnect.
		return false
	}

	if s.current != nil {
		ep := s.current.Endpoint
		s.failedEndpoint = &ep
	}
	s.current = nil
	s.pendingHint = m.seedHint

	h, err := s.acquire(context.Background())
	if err != nil {
		s.log.With(klog.Fields{"error": err.Error()}).Warn("reconnect attempt failed, staying disconnected until next request")
		return isTerminal(err)
	}
	s.current = &h
	return false
}

// acquire implements the acquisition loop (spec §4.5).
func (s *Supervisor) acquire(ctx context.Context) (Handle, error) {
	for attempts := 1; attempts <= s.settings.MaxDiscoverAttempts; attempts++ {
		candidate, ok := s.nextCandidate(ctx)
		if !ok {
			s.sleep(ctx)
			continue
		}

		h, status, err := s.probeFunc(ctx, candidate)
		switch {
		case err == nil:
			return h, nil
		case status != nil:
			// Any non-recoverable status aborts the supervisor per spec;
			// NotFound/Unimplemented are already absorbed inside probe.
			return Handle{}, &errs.GrpcStatusError{Status: *status}
		default:
			// Timeout or transport-level failure: discard this candidate.
			s.log.With(klog.Fields{"candidate": candidate.String(), "error": err.Error()}).Warn("acquisition probe failed, trying next candidate")
			s.sleep(ctx)
		}
	}
	return Handle{}, &errs.MaxDiscoveryAttemptReached{Attempts: s.settings.MaxDiscoverAttempts}
}

func (s *Supervisor) sleep(ctx context.Context) {
	t := time.NewTimer(s.settings.DiscoveryInterval)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (s *Supervisor) nextCandidate(ctx context.Context) (endpoint.Endpoint, bool) {
	if s.pendingHint != nil {
		ep := *s.pendingHint
		s.pendingHint = nil
		return ep, true
	}

	if _, single := s.mode.(settings.SingleNode); single && s.lastKnownMembers == nil {
		return s.settings.Hosts[0], true
	}

	winner, members := selector.Select(ctx, s.log, s.rng, s.transport, s.mode, s.settings.Hosts, s.lastKnownMembers, s.failedEndpoint, s.settings.Preference, s.settings.GossipTimeout)
	if winner == nil {
		return endpoint.Endpoint{}, false
	}
	s.lastKnownMembers = members
	return *winner, true
}

// probe runs the supported-methods RPC against candidate under
// gossip_timeout, returning a built Handle on success. status is set iff
// the failure is a non-timeout, non-absorbed gRPC status (abort case);
// err alone (status == nil) means "discard and try the next candidate".
func (s *Supervisor) probe(ctx context.Context, candidate endpoint.Endpoint) (Handle, *errs.Status, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.settings.GossipTimeout)
	defer cancel()

	conn := wire.Dial(s.transport.Client(), candidate, s.transport.Secure())
	info, err := fetchServerInfo(callCtx, conn, s.settings.DefaultUser)
	if err == nil {
		h := Handle{
			ID:         uuid.New(),
			Transport:  s.transport,
			URI:        s.settings.Raw(),
			Endpoint:   candidate,
			Secure:     s.transport.Secure(),
			ServerInfo: info,
			supervisor: s.msgs,
		}
		return h, nil, nil
	}

	if callCtx.Err() != nil {
		return Handle{}, nil, err
	}
	if status, ok := err.(*errs.Status); ok {
		return Handle{}, status, err
	}
	return Handle{}, nil, err
}
