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
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/nodestate"
	"github.com/kurrent-io/kurrentdb-client-go/transport"
)

type httpGossipResponse struct {
	Members []httpMember `json:"members"`
}

// ReadHTTP is the fallback gossip mechanism used by the operation layer
// during cluster warm-up probes: a plain JSON GET of /gossip on ep,
// authenticated with creds if present.
func ReadHTTP(ctx context.Context, tr *transport.Transport, ep endpoint.Endpoint, creds *endpoint.Credentials) ([]MemberInfo, error) {
	scheme := "http"
	if tr.Secure() {
		scheme = "https"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s://%s/gossip", scheme, ep), nil)
	if err != nil {
		return nil, errs.New(errs.MinPkgGossip+1, "failed to build http gossip request", err)
	}
	if creds != nil {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	client := &http.Client{Transport: tr.Client()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.New(errs.MinPkgGossip+2, "http gossip request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.MinPkgGossip+3, fmt.Sprintf("http gossip returned status %d", resp.StatusCode), nil)
	}

	var body httpGossipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.New(errs.MinPkgGossip+4, "failed to decode http gossip response", err)
	}

	members := make([]MemberInfo, 0, len(body.Members))
	for _, hm := range body.Members {
		state, ok := nodestate.ParseName(hm.State)
		if !ok {
			return nil, &errs.Status{Code: errs.StatusOutOfRange, Message: "gossip reported an unrecognized member state: " + hm.State}
		}
		if hm.HTTPEndPointIP == "" {
			return nil, &errs.Status{Code: errs.StatusFailedPrecondition, Message: "gossip member has no endpoint"}
		}

		id, _ := uuid.Parse(hm.InstanceID)
		members = append(members, MemberInfo{
			InstanceID:   id,
			State:        state,
			IsAlive:      hm.IsAlive,
			HTTPEndPoint: endpoint.Endpoint{Host: hm.HTTPEndPointIP, Port: hm.HTTPEndPointPort},
			TimeStamp:    hm.TimeStamp,
		})
	}
	return members, nil
}

func init() {
	errs.Register(errs.MinPkgGossip, func(c errs.CodeError) string {
		switch c {
		case errs.MinPkgGossip + 1:
			return "failed to build http gossip request"
		case errs.MinPkgGossip + 2:
			return "http gossip request failed"
		case errs.MinPkgGossip + 4:
			return "failed to decode http gossip response"
		}
		return ""
	})
}
