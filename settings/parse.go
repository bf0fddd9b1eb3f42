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

package settings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/internal/klog"
)

var schemeDiscover = map[string]bool{
	"esdb":               false,
	"esdb+discover":      true,
	"kurrentdb":          false,
	"kurrentdb+discover": true,
	"kurrent":            false,
	"kurrent+discover":   true,
	"kdb":                false,
	"kdb+discover":       true,
}

func parseErr(raw string, inner error) error {
	return &errs.ParseError{Input: raw, Inner: inner}
}

// Parse builds Settings from a connection string of the form
// scheme://[user[:pass]@]host[:port][,host[:port]...]/?k=v&...
//
// A comma-separated seed list is not a legal URI authority (RFC 3986
// allows a comma in reg-name, but Go's net/url only ever splits the
// authority's *last* colon as a port, so "h1:1,h2:2" parses as one
// nonsensical host with port "2"). We therefore split the authority
// ourselves before handing the remainder to net/url for query decoding.
func Parse(raw string) (Settings, error) {
	s := Default()
	s.raw = raw

	scheme, authority, tail, err := splitURI(raw)
	if err != nil {
		return Settings{}, parseErr(raw, err)
	}

	discover, ok := schemeDiscover[scheme]
	if !ok {
		return Settings{}, parseErr(raw, fmt.Errorf("unrecognized scheme %q", scheme))
	}
	s.DnsDiscover = discover

	userinfo, hostPart := splitUserinfo(authority)

	hosts, err := parseHosts(hostPart)
	if err != nil {
		return Settings{}, parseErr(raw, err)
	}
	s.Hosts = hosts

	if discover && len(hosts) != 1 {
		return Settings{}, parseErr(raw, fmt.Errorf("+discover scheme requires exactly one host, got %d", len(hosts)))
	}

	if userinfo != "" {
		user, pass, _ := strings.Cut(userinfo, ":")
		unescapedUser, _ := url.QueryUnescape(user)
		unescapedPass, _ := url.QueryUnescape(pass)
		s.DefaultUser = &endpoint.Credentials{Username: unescapedUser, Password: unescapedPass}
	}

	query, err := parseQueryTail(tail)
	if err != nil {
		return Settings{}, parseErr(raw, err)
	}

	if err := applyQuery(&s, query); err != nil {
		return Settings{}, parseErr(raw, err)
	}

	if (s.UserCertFile == "") != (s.UserKeyFile == "") {
		return Settings{}, parseErr(raw, fmt.Errorf("userCertFile and userKeyFile must be supplied together"))
	}

	return s, nil
}

// splitURI breaks raw into scheme, authority (userinfo+hosts) and the
// path/query/fragment tail.
func splitURI(raw string) (scheme, authority, tail string, err error) {
	i := strings.Index(raw, "://")
	if i < 0 {
		return "", "", "", fmt.Errorf("missing \"://\"")
	}
	scheme = raw[:i]
	rest := raw[i+3:]

	end := len(rest)
	if j := strings.IndexAny(rest, "/?#"); j >= 0 {
		end = j
	}
	authority = rest[:end]
	tail = rest[end:]

	if authority == "" {
		return "", "", "", fmt.Errorf("missing host")
	}
	return scheme, authority, tail, nil
}

func splitUserinfo(authority string) (userinfo, hostPart string) {
	if at := strings.LastIndex(authority, "@"); at >= 0 {
		return authority[:at], authority[at+1:]
	}
	return "", authority
}

func parseHosts(hostPart string) ([]endpoint.Endpoint, error) {
	segs := strings.Split(hostPart, ",")
	hosts := make([]endpoint.Endpoint, 0, len(segs))
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("empty seed in host list %q", hostPart)
		}
		ep, err := parseSeed(seg)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", seg, err)
		}
		hosts = append(hosts, ep)
	}
	return hosts, nil
}

func parseSeed(seg string) (endpoint.Endpoint, error) {
	host, portStr, hasPort := strings.Cut(seg, ":")
	if host == "" {
		return endpoint.Endpoint{}, fmt.Errorf("empty host")
	}
	if !hasPort {
		return endpoint.Endpoint{Host: host, Port: endpoint.DefaultPort}, nil
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return endpoint.Endpoint{}, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return endpoint.Endpoint{Host: host, Port: uint32(port)}, nil
}

// parseQueryTail pulls the query component out of the path/query/fragment
// tail left over after splitURI, tolerating a leading "/" before "?".
func parseQueryTail(tail string) (url.Values, error) {
	if i := strings.IndexByte(tail, '?'); i >= 0 {
		tail = tail[i+1:]
	} else {
		return url.Values{}, nil
	}
	if i := strings.IndexByte(tail, '#'); i >= 0 {
		tail = tail[:i]
	}
	return url.ParseQuery(tail)
}

func applyQuery(s *Settings, q url.Values) error {
	seen := make(map[string]string, len(q))
	for k := range q {
		seen[strings.ToLower(k)] = q.Get(k)
	}

	if v, ok := seen["maxdiscoverattempts"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("maxDiscoverAttempts must be a positive integer, got %q", v)
		}
		s.MaxDiscoverAttempts = n
		delete(seen, "maxdiscoverattempts")
	}

	if v, ok := seen["discoveryinterval"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("discoveryInterval must be a non-negative integer, got %q", v)
		}
		s.DiscoveryInterval = time.Duration(n) * time.Millisecond
		delete(seen, "discoveryinterval")
	}

	if v, ok := seen["gossiptimeout"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("gossipTimeout must be a non-negative integer, got %q", v)
		}
		s.GossipTimeout = time.Duration(n) * time.Millisecond
		delete(seen, "gossiptimeout")
	}

	if v, ok := seen["tls"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("tls must be a boolean, got %q", v)
		}
		s.Secure = b
		delete(seen, "tls")
	}

	if v, ok := seen["tlsverifycert"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("tlsVerifyCert must be a boolean, got %q", v)
		}
		s.TLSVerifyCert = b
		delete(seen, "tlsverifycert")
	}

	if v, ok := seen["nodepreference"]; ok {
		p, ok := endpoint.ParseNodePreference(v)
		if !ok {
			return fmt.Errorf("unrecognized nodePreference %q", v)
		}
		s.Preference = p
		delete(seen, "nodepreference")
	}

	if v, ok := seen["keepaliveinterval"]; ok {
		d, ignore, err := parseSignedMillis(v)
		if err != nil {
			return fmt.Errorf("keepAliveInterval: %w", err)
		}
		if ignore {
			s.logger().With(klog.Fields{"value": v}).Warn("keepAliveInterval below 10s, ignoring")
		} else {
			s.KeepAliveInterval = d
		}
		delete(seen, "keepaliveinterval")
	}

	if v, ok := seen["keepalivetimeout"]; ok {
		d, ignore, err := parseSignedMillis(v)
		if err != nil {
			return fmt.Errorf("keepAliveTimeout: %w", err)
		}
		if ignore {
			s.logger().With(klog.Fields{"value": v}).Warn("keepAliveTimeout below 10s, ignoring")
		} else {
			s.KeepAliveTimeout = d
		}
		delete(seen, "keepalivetimeout")
	}

	if v, ok := seen["defaultdeadline"]; ok {
		d, err := parseSignedMillisNoFloor(v)
		if err != nil {
			return fmt.Errorf("defaultDeadline: %w", err)
		}
		s.DefaultDeadline = &d
		delete(seen, "defaultdeadline")
	}

	if v, ok := seen["connectionname"]; ok {
		s.ConnectionName = v
		delete(seen, "connectionname")
	}

	if v, ok := seen["usercertfile"]; ok {
		s.UserCertFile = v
		delete(seen, "usercertfile")
	}
	if v, ok := seen["userkeyfile"]; ok {
		s.UserKeyFile = v
		delete(seen, "userkeyfile")
	}

	if v, ok := seen["tlscafile"]; ok {
		s.TLSCAFile = v
		if !s.Secure {
			s.logger().With(klog.Fields{"value": v}).Warn("tlsCAFile set while tls=false")
		}
		delete(seen, "tlscafile")
	}

	for k := range seen {
		s.logger().With(klog.Fields{"param": k}).Warn("unrecognized connection string query parameter, ignoring")
	}

	return nil
}

// parseSignedMillis implements the keepAliveInterval/keepAliveTimeout rule:
// -1 => Infinite; 0 <= v < 10000 => (zero, true, nil) meaning "ignore,
// keep default"; v < -1 => error.
func parseSignedMillis(v string) (d time.Duration, ignore bool, err error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("must be an integer, got %q", v)
	}
	switch {
	case n == -1:
		return Infinite, false, nil
	case n < -1:
		return 0, false, fmt.Errorf("value %d is below -1", n)
	case n < 10000:
		return 0, true, nil
	default:
		return time.Duration(n) * time.Millisecond, false, nil
	}
}

// parseSignedMillisNoFloor implements defaultDeadline's rule: -1 =>
// Infinite; v < -1 => error; any other value is taken as-is (there is no
// 10s floor for a per-operation deadline).
func parseSignedMillisNoFloor(v string) (time.Duration, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %q", v)
	}
	if n < -1 {
		return 0, fmt.Errorf("value %d is below -1", n)
	}
	if n == -1 {
		return Infinite, nil
	}
	return time.Duration(n) * time.Millisecond, nil
}
