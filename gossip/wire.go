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

package gossip

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/internal/wire"
	"github.com/kurrent-io/kurrentdb-client-go/nodestate"
)

const gossipReadMethod = "/event_store.client.gossip.Gossip/Read"

type wireReadResponse struct {
	Members []wireMember `json:"members"`
}

// ReadWire fetches membership from ep's gossip service via the unary RPC,
// under ctx's deadline (the caller arranges gossip_timeout).
func ReadWire(ctx context.Context, conn *wire.Conn) ([]MemberInfo, error) {
	var resp wireReadResponse
	if err := conn.Call(ctx, gossipReadMethod, struct{}{}, &resp, nil); err != nil {
		return nil, err
	}

	members := make([]MemberInfo, 0, len(resp.Members))
	for _, wm := range resp.Members {
		state, ok := nodestate.ParseOrdinal(wm.State)
		if !ok {
			return nil, &errs.Status{Code: errs.StatusOutOfRange, Message: "gossip reported an unrecognized member state"}
		}

		if wm.Host == "" {
			return nil, &errs.Status{Code: errs.StatusFailedPrecondition, Message: "gossip member has no endpoint"}
		}

		id, _ := uuid.Parse(wm.InstanceID)
		members = append(members, MemberInfo{
			InstanceID:   id,
			State:        state,
			IsAlive:      wm.IsAlive,
			HTTPEndPoint: endpoint.Endpoint{Host: wm.Host, Port: wm.Port},
			TimeStamp:    wm.TimeStamp,
		})
	}
	return members, nil
}

// WithTimeout is a small convenience around context.WithTimeout, named so
// call sites read as "gossip_timeout" rather than a bare stdlib call.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}
