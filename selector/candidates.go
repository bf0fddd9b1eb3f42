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

// Package selector implements the node selector (spec §4.4): candidate
// ordering from prior gossip or fresh cluster configuration, and
// determine_best_node's preference ranking with randomized tie-breaks.
package selector

import (
	"math/rand"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/gossip"
	"github.com/kurrent-io/kurrentdb-client-go/nodestate"
	"github.com/kurrent-io/kurrentdb-client-go/settings"
)

// Candidates builds the ordered list of endpoints to try gossip against.
// lastKnownMembers is nil on the very first selection (no prior gossip
// yet); failedEndpoint is the node that just reported a failure, if any.
func Candidates(rng *rand.Rand, mode settings.ClusterMode, hosts []endpoint.Endpoint, lastKnownMembers []gossip.MemberInfo, failedEndpoint *endpoint.Endpoint) []endpoint.Endpoint {
	if lastKnownMembers != nil {
		if eps := fromMembers(rng, lastKnownMembers, failedEndpoint); len(eps) > 0 {
			return eps
		}
		return hosts
	}

	switch m := mode.(type) {
	case settings.Seeds:
		eps := append([]endpoint.Endpoint(nil), m.Endpoints...)
		shuffle(rng, eps)
		return eps
	case settings.Dns:
		return []endpoint.Endpoint{m.Endpoint}
	default:
		return hosts
	}
}

func fromMembers(rng *rand.Rand, members []gossip.MemberInfo, failedEndpoint *endpoint.Endpoint) []endpoint.Endpoint {
	var normal, managers []endpoint.Endpoint
	for _, m := range members {
		if failedEndpoint != nil && m.HTTPEndPoint == *failedEndpoint {
			continue
		}
		if m.State == nodestate.Manager {
			managers = append(managers, m.HTTPEndPoint)
		} else {
			normal = append(normal, m.HTTPEndPoint)
		}
	}
	shuffle(rng, normal)
	shuffle(rng, managers)
	return append(normal, managers...)
}

func shuffle(rng *rand.Rand, eps []endpoint.Endpoint) {
	rng.Shuffle(len(eps), func(i, j int) { eps[i], eps[j] = eps[j], eps[i] })
}
