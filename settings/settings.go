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

// Package settings parses a KurrentDB/EventStoreDB connection string into
// an immutable Settings value, in the teacher's config-struct idiom
// (struct-tag metadata + a stand-alone Validate using
// go-playground/validator, per cluster/configGossip.go).
package settings

import (
	"time"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/klog"
)

// Infinite is the sentinel duration for "-1 ⇒ infinite" query parameters.
const Infinite time.Duration = -1

// ClusterMode is derived from Settings by Settings.ClusterMode; the
// connection supervisor derives it once, when it starts.
type ClusterMode interface{ isClusterMode() }

type SingleNode struct{}

func (SingleNode) isClusterMode() {}

type Seeds struct{ Endpoints []endpoint.Endpoint }

func (Seeds) isClusterMode() {}

type Dns struct{ Endpoint endpoint.Endpoint }

func (Dns) isClusterMode() {}

// Settings is the immutable result of Parse. Zero value is not meaningful;
// always construct via Parse or Default().
type Settings struct {
	DnsDiscover bool `validate:"-"`
	// Hosts is non-empty after a successful Parse.
	Hosts []endpoint.Endpoint `validate:"required,min=1"`

	MaxDiscoverAttempts int           `validate:"min=1"`
	DiscoveryInterval   time.Duration `validate:"min=0"`
	GossipTimeout       time.Duration `validate:"min=0"`

	Preference endpoint.NodePreference `validate:"-"`

	Secure        bool `validate:"-"`
	TLSVerifyCert bool `validate:"-"`

	DefaultUser *endpoint.Credentials `validate:"-"`

	// KeepAliveInterval/KeepAliveTimeout hold Infinite for "-1" per the
	// query-parameter rules; see parseSignedMillis.
	KeepAliveInterval time.Duration `validate:"-"`
	KeepAliveTimeout  time.Duration `validate:"-"`

	// DefaultDeadline is nil when unset, and points at Infinite when the
	// caller asked for "-1".
	DefaultDeadline *time.Duration `validate:"-"`

	ConnectionName string `validate:"-"`

	TLSCAFile   string `validate:"-"`
	UserCertFile string `validate:"required_with=UserKeyFile"`
	UserKeyFile  string `validate:"required_with=UserCertFile"`

	// raw is the original connection string, kept for diagnostics.
	raw string

	// Logger receives parser warnings (unknown query parameters,
	// ignored keepAlive values). Defaults to klog.Default().
	Logger klog.Logger
}

// Default returns the zero-URI defaults from the data model table,
// suitable as a starting point for an application building Settings by
// hand instead of parsing a connection string.
func Default() Settings {
	return Settings{
		Hosts:               nil,
		MaxDiscoverAttempts: 3,
		DiscoveryInterval:   500 * time.Millisecond,
		GossipTimeout:       3 * time.Second,
		Preference:          endpoint.PreferenceRandom,
		Secure:              true,
		TLSVerifyCert:       true,
		KeepAliveInterval:   10 * time.Second,
		KeepAliveTimeout:    10 * time.Second,
		Logger:              klog.Default(),
	}
}

// ClusterMode derives the ClusterMode variant from s, per spec §3.
func (s Settings) ClusterMode() ClusterMode {
	switch {
	case s.DnsDiscover:
		return Dns{Endpoint: s.Hosts[0]}
	case len(s.Hosts) >= 2:
		return Seeds{Endpoints: s.Hosts}
	default:
		return SingleNode{}
	}
}

// Raw returns the connection string Parse was called with, or "" for a
// hand-built Settings.
func (s Settings) Raw() string { return s.raw }

func (s Settings) logger() klog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return klog.Default()
}
