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

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/wire"
	"github.com/kurrent-io/kurrentdb-client-go/transport"
)

// Read is the node selector's per-candidate gossip call (spec §4.4): the
// wire gossip RPC against ep, bounded by timeout. Callers treat any
// returned error as recoverable — warn and move to the next candidate.
func Read(ctx context.Context, tr *transport.Transport, ep endpoint.Endpoint, timeout time.Duration) ([]MemberInfo, error) {
	ctx, cancel := WithTimeout(ctx, timeout)
	defer cancel()

	conn := wire.Dial(tr.Client(), ep, tr.Secure())
	return ReadWire(ctx, conn)
}
