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

// Package tlsconf builds the *tls.Config consumed by the transport factory.
//
// It covers exactly the TLS material the connection engine needs: a root
// certificate pool (platform trust store or a CA file), an optional client
// certificate pair, and the deliberate "accept any certificate" override used
// when a caller asks for secure transport without peer verification.
package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
)

// Config is the immutable TLS material derived from settings.Settings.
type Config struct {
	rootCA     *x509.CertPool
	clientCert []tls.Certificate
	skipVerify bool
}

// Option mutates a Config being built by New.
type Option func(*Config) error

// New builds a Config, applying options in order. The zero-value Config
// (no options) uses the platform trust store and performs normal
// verification.
func New(opts ...Option) (*Config, error) {
	c := &Config{}

	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return nil, err
		}
	}

	if c.rootCA == nil {
		pool, err := x509.SystemCertPool()
		if err != nil {
			return nil, ErrSystemRootCA.withParent(err)
		}
		if pool == nil {
			return nil, ErrSystemRootCA.withParent(nil)
		}
		c.rootCA = pool
	}

	return c, nil
}

// TLS renders the stdlib *tls.Config for the given server name. Called once
// per transport build; the *tls.Config is then shared by every Handle using
// that transport.
func (c *Config) TLS(serverName string) *tls.Config {
	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      c.rootCA,
		Certificates: c.clientCert,
	}

	if serverName != "" {
		cfg.ServerName = serverName
	}

	if c.skipVerify {
		// Deliberate insecure mode: settings.tls=true && tlsVerifyCert=false.
		// Accepts any certificate chain and any signature; this is the
		// documented behavior CI and the test harness rely on, not a bug.
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = func(_ [][]byte, _ [][]*x509.Certificate) error {
			return nil
		}
	}

	return cfg
}
