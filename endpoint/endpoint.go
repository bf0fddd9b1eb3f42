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

// Package endpoint holds the small value types shared across the
// connection engine: network endpoints, credentials and node preference.
package endpoint

import "fmt"

// Endpoint is a host/port pair. Equality is structural.
type Endpoint struct {
	Host string
	Port uint32
}

// DefaultPort is used by the settings parser when a host segment omits a
// port.
const DefaultPort uint32 = 2113

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// IsZero reports whether e is the zero Endpoint.
func (e Endpoint) IsZero() bool {
	return e.Host == "" && e.Port == 0
}

// Credentials is a username/password pair, opaque to the connection
// engine beyond request-metadata attachment.
type Credentials struct {
	Username string
	Password string
}

// NodePreference ranks cluster members when the selector has a choice.
type NodePreference uint8

const (
	PreferenceRandom NodePreference = iota
	PreferenceLeader
	PreferenceFollower
	PreferenceReadOnlyReplica
)

func (p NodePreference) String() string {
	switch p {
	case PreferenceLeader:
		return "Leader"
	case PreferenceFollower:
		return "Follower"
	case PreferenceReadOnlyReplica:
		return "ReadOnlyReplica"
	case PreferenceRandom:
		return "Random"
	default:
		return "Unknown"
	}
}

// ParseNodePreference parses the nodePreference query parameter value.
// Only the parameter *name* is case-insensitive (settings.applyQuery
// lower-cases query keys before dispatch); the value itself is matched
// case-sensitively against the exact spellings below, same as every
// connection string in the test corpus. Unknown values are the caller's
// error to raise (settings.Parse does so, via errs.ParseError).
func ParseNodePreference(s string) (NodePreference, bool) {
	switch s {
	case "leader":
		return PreferenceLeader, true
	case "follower":
		return PreferenceFollower, true
	case "random":
		return PreferenceRandom, true
	case "readOnlyReplica":
		return PreferenceReadOnlyReplica, true
	default:
		return 0, false
	}
}
