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

package tlsconf

import (
	"crypto/x509"
	"os"
)

// WithRootCAFile replaces the platform trust store with the PEM
// certificates found in path. An empty or unreadable file is an error.
func WithRootCAFile(path string) Option {
	return func(c *Config) error {
		b, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			return ErrRootCAFile.withParent(err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(b) {
			return ErrRootCAFile.withParent(nil)
		}

		c.rootCA = pool
		return nil
	}
}

// WithClientCertificate attaches the client certificate pair used for
// mutual TLS. Both paths must be non-empty; settings.Parse already
// enforces the both-or-neither invariant before this is called.
func WithClientCertificate(certFile, keyFile string) Option {
	return func(c *Config) error {
		pair, err := loadKeyPair(certFile, keyFile)
		if err != nil {
			return ErrClientCertificate.withParent(err)
		}

		c.clientCert = append(c.clientCert, pair)
		return nil
	}
}

// WithInsecureSkipVerify installs the "accept any certificate, any
// signature" override. Reserved for settings.Settings{Secure: true,
// TLSVerifyCert: false} — a deliberate mode used by CI and the test
// harness, not a default.
func WithInsecureSkipVerify() Option {
	return func(c *Config) error {
		c.skipVerify = true
		return nil
	}
}
