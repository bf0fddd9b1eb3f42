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

// Package transport builds the shared, cloneable HTTP/2 client the
// connection engine dials every node through, in the teacher's
// options-struct idiom (httpcli's TransportConfig) generalized to an
// HTTP/2-only, TLS-or-h2c client.
package transport

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"golang.org/x/net/http2"

	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/internal/tlsconf"
	"github.com/kurrent-io/kurrentdb-client-go/settings"
)

// Transport is the cloneable, shared HTTP/2 client referenced by every
// Handle. It is safe for concurrent use and holds no per-node state.
type Transport struct {
	client *http2.Transport
	secure bool
}

// Client returns the underlying *http2.Transport, which implements
// http.RoundTripper and is what request builders (gossip, wire RPCs) use.
func (t *Transport) Client() *http2.Transport { return t.client }

// Secure reports whether this transport dials TLS (esdb/kurrentdb
// schemes with tls=true) or cleartext h2c.
func (t *Transport) Secure() bool { return t.secure }

// New builds a Transport from Settings, per spec: HTTP/2-only, keep-alive
// interval/timeout applied as http2.Transport's ReadIdleTimeout/
// PingTimeout, and (when secure) a TLS config from internal/tlsconf.
func New(s settings.Settings) (*Transport, error) {
	if !s.Secure {
		return newH2C(s), nil
	}

	opts := []tlsconf.Option{}
	if s.TLSCAFile != "" {
		opts = append(opts, tlsconf.WithRootCAFile(s.TLSCAFile))
	}
	if s.UserCertFile != "" && s.UserKeyFile != "" {
		opts = append(opts, tlsconf.WithClientCertificate(s.UserCertFile, s.UserKeyFile))
	}
	if !s.TLSVerifyCert {
		opts = append(opts, tlsconf.WithInsecureSkipVerify())
	}

	cfg, err := tlsconf.New(opts...)
	if err != nil {
		return nil, errs.New(errs.MinPkgTransport+20, "failed to build tls configuration", err)
	}

	tr := &http2.Transport{
		TLSClientConfig: cfg.TLS(""),
		ReadIdleTimeout: keepAliveDuration(s.KeepAliveInterval),
		PingTimeout:     keepAliveDuration(s.KeepAliveTimeout),
	}

	return &Transport{client: tr, secure: true}, nil
}

// newH2C builds a cleartext HTTP/2 transport (secure=false). x/net's h2c
// package only offers a server-side handler wrapper; the client-side
// idiom is an http2.Transport with AllowHTTP set and DialTLSContext
// overridden to a plain TCP dial, which is what this does.
func newH2C(s settings.Settings) *Transport {
	tr := &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, network, addr)
		},
		ReadIdleTimeout: keepAliveDuration(s.KeepAliveInterval),
		PingTimeout:     keepAliveDuration(s.KeepAliveTimeout),
	}
	return &Transport{client: tr, secure: false}
}

func keepAliveDuration(d time.Duration) time.Duration {
	if d == settings.Infinite {
		return 0
	}
	return d
}
