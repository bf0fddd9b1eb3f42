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

// Package kurrentdb wires the connection engine's components together:
// parse a connection string, build a transport, and start the connection
// supervisor. Everything underneath (settings, transport, gossip,
// selector, connection) is independently usable; this is the one-call
// convenience path most applications want.
package kurrentdb

import (
	"github.com/kurrent-io/kurrentdb-client-go/connection"
	"github.com/kurrent-io/kurrentdb-client-go/settings"
	"github.com/kurrent-io/kurrentdb-client-go/transport"
)

// Client is the connection engine's public surface: Execute and
// CurrentSelectedNode from connection.Client.
type Client = connection.Client

// Handle is a live connection to one cluster node.
type Handle = connection.Handle

// Execute runs action against the current handle, reconnecting on
// ServerError/NotLeaderException per spec §7.
func Execute[T any](c Client, action func(Handle) (T, error)) (T, error) {
	return connection.Execute(c, action)
}

// NewClient parses connString, builds its transport, and starts a
// connection supervisor for it. The returned Client is ready to use
// immediately; node acquisition happens lazily on the first Execute or
// CurrentSelectedNode call.
func NewClient(connString string, opts ...connection.Option) (Client, error) {
	s, err := settings.Parse(connString)
	if err != nil {
		return Client{}, err
	}
	return NewClientFromSettings(s, opts...)
}

// NewClientFromSettings is NewClient for a Settings an application built
// by hand instead of parsing a URI.
func NewClientFromSettings(s settings.Settings, opts ...connection.Option) (Client, error) {
	tr, err := transport.New(s)
	if err != nil {
		return Client{}, err
	}
	return *connection.Start(s, tr, opts...), nil
}
