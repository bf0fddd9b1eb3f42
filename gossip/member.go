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

// Package gossip reads cluster membership from a candidate node, via the
// wire gossip RPC (primary) or an HTTP fallback, per spec §4.3.
package gossip

import (
	"github.com/google/uuid"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/nodestate"
)

// MemberInfo is one cluster member as reported by gossip.
type MemberInfo struct {
	InstanceID    uuid.UUID
	State         nodestate.State
	IsAlive       bool
	HTTPEndPoint  endpoint.Endpoint
	TimeStamp     int64
}

// wireMember is the JSON shape exchanged with the wire gossip RPC.
type wireMember struct {
	InstanceID string `json:"instanceId"`
	State      uint8  `json:"state"`
	IsAlive    bool   `json:"isAlive"`
	Host       string `json:"httpEndPointHost"`
	Port       uint32 `json:"httpEndPointPort"`
	TimeStamp  int64  `json:"timeStamp"`
}

// httpMember is the JSON shape of the /gossip HTTP fallback's members
// array entry.
type httpMember struct {
	InstanceID     string `json:"instanceId"`
	State          string `json:"state"`
	IsAlive        bool   `json:"isAlive"`
	HTTPEndPointIP string `json:"httpEndPointIp"`
	HTTPEndPointPort uint32 `json:"httpEndPointPort"`
	TimeStamp      int64  `json:"timeStamp"`
}
