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
	"context"
	"math/rand"
	"time"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/gossip"
	"github.com/kurrent-io/kurrentdb-client-go/internal/klog"
	"github.com/kurrent-io/kurrentdb-client-go/nodestate"
	"github.com/kurrent-io/kurrentdb-client-go/settings"
	"github.com/kurrent-io/kurrentdb-client-go/transport"
)

// Select runs the full node selector: it walks candidates in order,
// polling gossip under gossipTimeout, and returns the determine_best_node
// winner of the first candidate whose gossip yields an eligible member,
// together with that gossip. A nil winner means every candidate failed;
// the supervisor's acquisition loop counts that as one exhausted attempt.
func Select(
	ctx context.Context,
	log klog.Logger,
	rng *rand.Rand,
	tr *transport.Transport,
	mode settings.ClusterMode,
	hosts []endpoint.Endpoint,
	lastKnownMembers []gossip.MemberInfo,
	failedEndpoint *endpoint.Endpoint,
	pref endpoint.NodePreference,
	gossipTimeout time.Duration,
) (*endpoint.Endpoint, []gossip.MemberInfo) {
	candidates := Candidates(rng, mode, hosts, lastKnownMembers, failedEndpoint)

	for _, c := range candidates {
		members, err := gossip.Read(ctx, tr, c, gossipTimeout)
		if err != nil {
			log.With(klog.Fields{"candidate": c.String(), "error": err.Error()}).Warn("gossip call failed, trying next candidate")
			continue
		}

		if winner, ok := determineBestNode(rng, members, pref); ok {
			return &winner, members
		}
		log.With(klog.Fields{"candidate": c.String()}).Warn("gossip returned no eligible member")
	}

	return nil, nil
}

// determineBestNode implements spec §4.4's determine_best_node.
func determineBestNode(rng *rand.Rand, members []gossip.MemberInfo, pref endpoint.NodePreference) (endpoint.Endpoint, bool) {
	survivors := make([]gossip.MemberInfo, 0, len(members))
	for _, m := range members {
		if !m.IsAlive || m.State.Excluded() {
			continue
		}
		survivors = append(survivors, m)
	}
	if len(survivors) == 0 {
		return endpoint.Endpoint{}, false
	}

	if pref == endpoint.PreferenceRandom {
		return survivors[rng.Intn(len(survivors))].HTTPEndPoint, true
	}

	var matching []gossip.MemberInfo
	for _, m := range survivors {
		if nodestate.MatchesPreference(m.State, pref) {
			matching = append(matching, m)
		}
	}
	if len(matching) > 0 {
		return matching[rng.Intn(len(matching))].HTTPEndPoint, true
	}
	return survivors[rng.Intn(len(survivors))].HTTPEndPoint, true
}
