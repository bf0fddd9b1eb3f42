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

// Package nodestate defines the cluster member state enumeration reported
// by gossip, and the preference-matching rule the node selector uses.
package nodestate

import "github.com/kurrent-io/kurrentdb-client-go/endpoint"

// State is a cluster member's role/lifecycle state. Ordinals match the
// wire encoding (0-15); a server reporting an ordinal outside this range
// is a gossip decode error, not a new State value (see internal/errs).
type State uint8

const (
	Initializing State = iota
	DiscoverLeader
	Unknown
	PreReplica
	CatchingUp
	Clone
	Follower
	PreLeader
	Leader
	Manager
	ShuttingDown
	Shutdown
	ReadOnlyLeaderLess
	PreReadOnlyReplica
	ReadOnlyReplica
	ResigningLeader

	maxOrdinal = ResigningLeader
)

// ParseOrdinal validates a wire ordinal, returning (state, true) for any
// value in [0, maxOrdinal], and (0, false) otherwise — the caller raises
// an OutOfRange gossip error for the latter.
func ParseOrdinal(v uint8) (State, bool) {
	if v > uint8(maxOrdinal) {
		return 0, false
	}
	return State(v), true
}

// ParseName matches the HTTP gossip fallback's string-encoded state
// field (the wire RPC uses the numeric ordinal instead; see ParseOrdinal).
func ParseName(name string) (State, bool) {
	for s := Initializing; s <= maxOrdinal; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

func (s State) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case DiscoverLeader:
		return "DiscoverLeader"
	case Unknown:
		return "Unknown"
	case PreReplica:
		return "PreReplica"
	case CatchingUp:
		return "CatchingUp"
	case Clone:
		return "Clone"
	case Follower:
		return "Follower"
	case PreLeader:
		return "PreLeader"
	case Leader:
		return "Leader"
	case Manager:
		return "Manager"
	case ShuttingDown:
		return "ShuttingDown"
	case Shutdown:
		return "Shutdown"
	case ReadOnlyLeaderLess:
		return "ReadOnlyLeaderLess"
	case PreReadOnlyReplica:
		return "PreReadOnlyReplica"
	case ReadOnlyReplica:
		return "ReadOnlyReplica"
	case ResigningLeader:
		return "ResigningLeader"
	default:
		return "Unknown"
	}
}

// Excluded reports whether a member in this state is never eligible for
// selection, regardless of preference (spec §4.4).
func (s State) Excluded() bool {
	switch s {
	case Manager, ShuttingDown, Shutdown:
		return true
	default:
		return false
	}
}

// MatchesPreference implements match_preference from spec §4.4: whether a
// member in state s satisfies the caller's NodePreference. Random never
// "matches" in the ranking sense — every survivor is an equally valid
// candidate and the selector picks uniformly among them.
func MatchesPreference(s State, pref endpoint.NodePreference) bool {
	switch pref {
	case endpoint.PreferenceLeader:
		return s == Leader
	case endpoint.PreferenceFollower:
		return s == Follower
	case endpoint.PreferenceReadOnlyReplica:
		switch s {
		case ReadOnlyReplica, PreReadOnlyReplica, ReadOnlyLeaderLess:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
