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
	"errors"

	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
)

// Client is the outward connection handle: freely cloneable, holding
// nothing but a send end into the owning Supervisor's goroutine (spec §9,
// "Single-owner mutability vs. shared clients").
type Client struct {
	send chan supervisorMsg
}

// getChannel sends a getChannelMsg and awaits its reply. Once Close has
// closed c.send, the send panics ("send on closed channel"); that panic
// is recovered here and surfaced as ErrConnectionClosed instead, since
// there is no race-free way to check a channel's closed state before
// sending to it.
func (c Client) getChannel() (reply getChannelReply, err error) {
	defer func() {
		if recover() != nil {
			reply, err = getChannelReply{}, errs.ErrConnectionClosed
		}
	}()

	replyCh := make(chan getChannelReply, 1)
	c.send <- getChannelMsg{reply: replyCh}
	return <-replyCh, nil
}

// CurrentSelectedNode requests the current Handle, acquiring one if none
// exists yet. It is the non-closure form of Execute, for callers that
// just want the endpoint/ServerInfo without performing an RPC.
func (c Client) CurrentSelectedNode() (Handle, error) {
	r, err := c.getChannel()
	if err != nil {
		return Handle{}, err
	}
	return r.handle, r.err
}

// Execute sends GetChannel, awaits the reply, invokes action with the
// resulting Handle, and classifies any error per spec §7: ServerError and
// NotLeaderException provoke a reconnect (the latter short-circuiting
// node selection with its redirect endpoint as the seed hint); every
// other error — including the action's success value — is returned
// verbatim to the caller.
func Execute[T any](c Client, action func(Handle) (T, error)) (T, error) {
	var zero T

	r, err := c.getChannel()
	if err != nil {
		return zero, err
	}
	if r.err != nil {
		return zero, r.err
	}

	result, err := action(r.handle)
	if err == nil {
		return result, nil
	}

	var serverErr *errs.ServerError
	var notLeader *errs.NotLeaderException
	switch {
	case errors.As(err, &serverErr):
		r.handle.reportFailure(nil)
	case errors.As(err, &notLeader):
		r.handle.reportFailure(&notLeader.Endpoint)
	}

	return zero, err
}

// Close shuts the supervisor goroutine down by closing its control
// channel; any Client copies sharing this send end become unusable.
// Closing an already-closed (or already-closing) Client is a no-op
// rather than a panic.
func (c Client) Close() {
	defer func() { recover() }()
	close(c.send)
}
