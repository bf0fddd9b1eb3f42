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

// Package wire is a minimal unary RPC client over HTTP/2, used by the
// gossip reader and the supervisor's supported-methods probe. The corpus
// carries no protobuf/grpc-go dependency to ground a real gRPC client on,
// so calls are transcoded as one HTTP/2 request/response per call with a
// JSON body under a grpc-shaped content-type, with the status code and
// message riding ordinary response *headers* rather than real gRPC
// trailers/protobuf framing — real HTTP/2 RPC plumbing on the Transport
// Factory's client, without fabricating a grpc dependency the example
// pack never demonstrates. A server under test needs to speak this same
// transcoding; it is not wire-compatible with a stock gRPC server.
package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/net/http2"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
)

const contentType = "application/grpc+json"

// grpcStatusHeader carries the numeric Status.Code; grpcMessageHeader
// carries Status.Message. A 200 response with no status header is
// OK/StatusUnknown-free success.
const (
	grpcStatusHeader  = "Grpc-Status"
	grpcMessageHeader = "Grpc-Message"
)

// Dial wraps an *http2.Transport for unary calls against one endpoint.
// Calls on the returned Conn name their method by a gRPC-style path, e.g.
// "/event_store.client.gossip.Gossip/Read".
func Dial(rt *http2.Transport, ep endpoint.Endpoint, secure bool) *Conn {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return &Conn{rt: rt, base: scheme + "://" + ep.String(), client: &http.Client{Transport: rt}}
}

// Conn is a unary-RPC client bound to one endpoint.
type Conn struct {
	rt     *http2.Transport
	base   string
	client *http.Client
}

// Call invokes method with req marshaled as the request body, and
// unmarshals the response into resp. A non-zero Grpc-Status header is
// surfaced as *errs.Status.
func (c *Conn) Call(ctx context.Context, method string, req, resp interface{}, creds *BasicCreds) error {
	body, err := json.Marshal(req)
	if err != nil {
		return errs.New(errs.MinPkgWire+1, "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+method, bytes.NewReader(body))
	if err != nil {
		return errs.New(errs.MinPkgWire+2, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", contentType)
	if creds != nil {
		httpReq.SetBasicAuth(creds.Username, creds.Password)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return errs.New(errs.MinPkgWire+3, "rpc call failed", err)
	}
	defer httpResp.Body.Close()

	if s := httpResp.Header.Get(grpcStatusHeader); s != "" && s != "0" {
		code, _ := strconv.Atoi(s)
		return &errs.Status{Code: errs.StatusCode(code), Message: httpResp.Header.Get(grpcMessageHeader)}
	}

	if httpResp.StatusCode == http.StatusNotFound {
		return &errs.Status{Code: errs.StatusNotFound, Message: "not found"}
	}
	if httpResp.StatusCode == http.StatusNotImplemented {
		return &errs.Status{Code: errs.StatusUnimplemented, Message: "unimplemented"}
	}
	if httpResp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(httpResp.Body)
		return &errs.Status{Code: errs.StatusUnknown, Message: fmt.Sprintf("http %d: %s", httpResp.StatusCode, string(data))}
	}

	if resp == nil {
		return nil
	}
	dec := json.NewDecoder(httpResp.Body)
	if err := dec.Decode(resp); err != nil {
		return errs.New(errs.MinPkgWire+4, "failed to decode response", err)
	}
	return nil
}

// BasicCreds carries default_user for authenticated calls.
type BasicCreds struct {
	Username string
	Password string
}

func init() {
	errs.Register(errs.MinPkgWire, func(c errs.CodeError) string {
		switch c {
		case errs.MinPkgWire + 1:
			return "failed to encode request"
		case errs.MinPkgWire + 2:
			return "failed to build request"
		case errs.MinPkgWire + 3:
			return "rpc call failed"
		case errs.MinPkgWire + 4:
			return "failed to decode response"
		}
		return ""
	})
}
