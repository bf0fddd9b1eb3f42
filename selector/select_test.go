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

package selector

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/gossip"
	"github.com/kurrent-io/kurrentdb-client-go/nodestate"
)

func member(state nodestate.State, alive bool, port uint32) gossip.MemberInfo {
	return gossip.MemberInfo{
		InstanceID:   uuid.New(),
		State:        state,
		IsAlive:      alive,
		HTTPEndPoint: endpoint.Endpoint{Host: "node", Port: port},
	}
}

func fixtureMembers() []gossip.MemberInfo {
	return []gossip.MemberInfo{
		member(nodestate.Leader, true, 1),
		member(nodestate.Follower, true, 2),
		member(nodestate.Follower, true, 3),
		member(nodestate.ReadOnlyReplica, true, 4),
		member(nodestate.ReadOnlyReplica, true, 5),
	}
}

func TestDetermineBestNodeLeaderStability(t *testing.T) {
	members := fixtureMembers()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		got, ok := determineBestNode(rng, members, endpoint.PreferenceLeader)
		if !ok || got.Port != 1 {
			t.Fatalf("invocation %d: got %+v, ok=%v, want leader port 1", i, got, ok)
		}
	}
}

func TestDetermineBestNodePreferenceMatchAndVariety(t *testing.T) {
	members := fixtureMembers()
	rng := rand.New(rand.NewSource(2))
	seen := map[uint32]bool{}
	for i := 0; i < 100; i++ {
		got, ok := determineBestNode(rng, members, endpoint.PreferenceFollower)
		if !ok || (got.Port != 2 && got.Port != 3) {
			t.Fatalf("invocation %d: got %+v, ok=%v, want a follower", i, got, ok)
		}
		seen[got.Port] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected both followers to be selected across 100 trials, saw %v", seen)
	}
}

func TestDetermineBestNodeExclusions(t *testing.T) {
	members := []gossip.MemberInfo{
		member(nodestate.Leader, false, 1),
		member(nodestate.Manager, true, 2),
		member(nodestate.ShuttingDown, true, 3),
		member(nodestate.Shutdown, true, 4),
		member(nodestate.Follower, true, 5),
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		got, ok := determineBestNode(rng, members, endpoint.PreferenceRandom)
		if !ok || got.Port != 5 {
			t.Fatalf("invocation %d: got %+v, ok=%v, want only eligible member port 5", i, got, ok)
		}
	}
}

func TestDetermineBestNodeNoSurvivors(t *testing.T) {
	members := []gossip.MemberInfo{member(nodestate.Manager, true, 1)}
	rng := rand.New(rand.NewSource(4))
	if _, ok := determineBestNode(rng, members, endpoint.PreferenceRandom); ok {
		t.Fatal("expected no eligible member")
	}
}
