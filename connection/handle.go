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
	"github.com/google/uuid"
	"github.com/hashicorp/go-version"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/wire"
	"github.com/kurrent-io/kurrentdb-client-go/transport"
)

// Handle is a live connection to one cluster node. ID is regenerated on
// every successful (re)connection, which is what lets the supervisor
// disambiguate a failure report racing against an already-completed
// reconnect (spec §3, "Handle generations").
type Handle struct {
	ID        uuid.UUID
	Transport *transport.Transport
	// URI is the original multi-host connection string this Handle's
	// client was built from, kept for diagnostics; see URL for the
	// resolved single-node address this Handle is actually connected to.
	URI        string
	Endpoint   endpoint.Endpoint
	Secure     bool
	ServerInfo ServerInfo

	supervisor chan<- supervisorMsg
}

// URL is the scheme://host:port of the node this Handle is connected to,
// for an operation-layer caller that needs to log or display it.
func (h Handle) URL() string {
	scheme := "http"
	if h.Secure {
		scheme = "https"
	}
	return scheme + "://" + h.Endpoint.String()
}

// Sender opens a fresh unary-RPC channel against this Handle's node, the
// seam the operation layer (out of scope here) uses to issue its own
// calls over the shared Transport.
func (h Handle) Sender() *wire.Conn {
	return wire.Dial(h.Transport.Client(), h.Endpoint, h.Secure)
}

// SupportsFeature reports whether this Handle's node supports feature,
// per ServerInfo.SupportsFeature.
func (h Handle) SupportsFeature(feature string, minVersion *version.Version) bool {
	return h.ServerInfo.SupportsFeature(feature, minVersion)
}

// reportFailure asks the owning supervisor to replace h with a fresh
// connection, optionally to seedHint (a NotLeaderException redirect). It
// takes no error value and classifies nothing: Execute calls it only after
// it has matched a ServerError or NotLeaderException.
//
// A reportFailure racing against Client.Close finds the supervisor's
// channel already closed; the resulting panic is swallowed since the
// Client is going away regardless and there is nobody left to report to.
func (h Handle) reportFailure(seedHint *endpoint.Endpoint) {
	defer func() { recover() }()
	h.supervisor <- createChannelMsg{staleID: h.ID, seedHint: seedHint}
}
