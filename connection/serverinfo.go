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

package connection

import (
	"context"

	"github.com/hashicorp/go-version"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/internal/wire"
)

const supportedMethodsMethod = "/event_store.client.serverfeatures.ServerFeatures/GetSupportedMethods"

// ServerInfo is queried once per connection from the supported-methods
// endpoint (spec §3). A missing/unimplemented endpoint (older servers)
// yields defaultServerInfo rather than failing the connection attempt.
type ServerInfo struct {
	Version  *version.Version
	Features map[string]bool
}

type supportedMethodsResponse struct {
	Version string              `json:"eventStoreServerVersion"`
	Methods []supportedMethodRPC `json:"methods"`
}

type supportedMethodRPC struct {
	MethodName     string `json:"methodName"`
	ServiceName    string `json:"serviceName"`
	FeaturesFlag   int64  `json:"featuresFlag"`
}

// defaultServerInfo is what older servers (pre supported-methods) are
// assumed to expose.
func defaultServerInfo() ServerInfo {
	v, _ := version.NewVersion("0.0.0")
	return ServerInfo{Version: v, Features: map[string]bool{}}
}

// SupportsFeature reports whether the server either advertises feature or
// meets minVersion, the two axes real EventStoreDB feature negotiation
// checks (original_source's grpc.rs feature-detection comments). A nil
// minVersion leaves the advertised feature set as the only test.
func (s ServerInfo) SupportsFeature(feature string, minVersion *version.Version) bool {
	if s.Features[feature] {
		return true
	}
	if minVersion == nil || s.Version == nil {
		return false
	}
	return !s.Version.LessThan(minVersion)
}

// fetchServerInfo calls the supported-methods RPC against ep. It
// implements the three-way branch from spec §4.5: success builds
// ServerInfo; NotFound/Unimplemented yields the default; any other
// status, or ctx's deadline firing, is returned to the caller as-is so
// the acquisition loop can tell "abort" apart from "try the next
// candidate".
func fetchServerInfo(ctx context.Context, conn *wire.Conn, creds *endpoint.Credentials) (ServerInfo, error) {
	var wireCreds *wire.BasicCreds
	if creds != nil {
		wireCreds = &wire.BasicCreds{Username: creds.Username, Password: creds.Password}
	}

	var resp supportedMethodsResponse
	err := conn.Call(ctx, supportedMethodsMethod, struct{}{}, &resp, wireCreds)
	if err == nil {
		v, verr := version.NewVersion(resp.Version)
		if verr != nil {
			v, _ = version.NewVersion("0.0.0")
		}
		features := make(map[string]bool, len(resp.Methods))
		for _, m := range resp.Methods {
			features[m.ServiceName+"."+m.MethodName] = true
		}
		return ServerInfo{Version: v, Features: features}, nil
	}

	var status *errs.Status
	if s, ok := err.(*errs.Status); ok {
		status = s
	}
	if status != nil && (status.Code == errs.StatusNotFound || status.Code == errs.StatusUnimplemented) {
		return defaultServerInfo(), nil
	}

	return ServerInfo{}, err
}
