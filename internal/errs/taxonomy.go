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

package errs

import (
	"fmt"

	"github.com/kurrent-io/kurrentdb-client-go/endpoint"
)

// Codes owned by the settings/connection components (spec §7).
const codeParse CodeError = MinPkgSettings + 1

// ParseError is returned by settings.Parse. Input is the original
// connection string; Inner is the underlying net/url error where one
// exists.
type ParseError struct {
	Input string
	Inner error
}

func (e *ParseError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("parsing connection string %q: %s", e.Input, e.Inner.Error())
	}
	return fmt.Sprintf("parsing connection string %q", e.Input)
}

func (e *ParseError) Unwrap() error { return e.Inner }
func (*ParseError) Code() CodeError { return codeParse }

// MaxDiscoveryAttemptReached is one of the two GrpcConnectionError
// variants: the supervisor's acquisition loop exhausted
// Settings.MaxDiscoverAttempts without producing a Handle.
type MaxDiscoveryAttemptReached struct {
	Attempts int
}

func (e *MaxDiscoveryAttemptReached) Error() string {
	return fmt.Sprintf("exhausted %d discovery attempts without a usable node", e.Attempts)
}
func (*MaxDiscoveryAttemptReached) Code() CodeError { return MinPkgConnection + 1 }
func (*MaxDiscoveryAttemptReached) Unwrap() error    { return nil }

// GrpcStatusError is the other GrpcConnectionError variant: an
// acquisition-time RPC failed with a non-recoverable status (anything
// other than NotFound/Unimplemented from the supported-methods probe).
type GrpcStatusError struct {
	Status Status
}

func (e *GrpcStatusError) Error() string {
	return fmt.Sprintf("acquisition rpc failed: %s", e.Status.Error())
}
func (*GrpcStatusError) Code() CodeError { return MinPkgConnection + 2 }
func (e *GrpcStatusError) Unwrap() error { return &e.Status }

// ErrConnectionClosed is returned by Execute and CurrentSelectedNode once
// the supervisor's control channel has been closed (Client.Close, or the
// supervisor exiting after a terminal acquisition status).
var ErrConnectionClosed = New(MinPkgConnection+3, "connection supervisor is no longer running", nil)

// ServerError is a recoverable operational failure reported by the
// server; the operation layer reacts to it by requesting a reconnect.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string   { return "server error: " + e.Message }
func (*ServerError) Code() CodeError   { return MinPkgConnection + 4 }
func (*ServerError) Unwrap() error     { return nil }

// NotLeaderException is a leader-redirect: the server identifies the
// actual leader endpoint, which the supervisor uses as its next
// selection hint without consulting gossip again.
type NotLeaderException struct {
	Endpoint endpoint.Endpoint
}

func (e *NotLeaderException) Error() string {
	return fmt.Sprintf("not leader, redirect to %s", e.Endpoint)
}
func (*NotLeaderException) Code() CodeError { return MinPkgConnection + 5 }
func (*NotLeaderException) Unwrap() error   { return nil }

// IllegalOperation is passed through to the caller unchanged.
type IllegalOperation struct {
	Message string
}

func (e *IllegalOperation) Error() string   { return "illegal operation: " + e.Message }
func (*IllegalOperation) Code() CodeError   { return MinPkgConnection + 6 }
func (*IllegalOperation) Unwrap() error     { return nil }

// Status is a gRPC-style (code, message) pair. It is both an error in its
// own right (the Grpc{code,message} taxonomy member) and the payload of
// GrpcStatusError.
type Status struct {
	Code    StatusCode
	Message string
}

func (s *Status) Error() string { return fmt.Sprintf("%s: %s", s.Code, s.Message) }

// StatusCode mirrors the subset of gRPC status codes the core needs to
// name explicitly (spec §4.3's "out of range" / "precondition failed",
// and the pass-through taxonomy members of spec §7).
type StatusCode uint8

const (
	StatusUnknown StatusCode = iota
	StatusOutOfRange
	StatusFailedPrecondition
	StatusNotFound
	StatusUnimplemented
	StatusPermissionDenied
	StatusDeadlineExceeded
	StatusUnavailable
)

func (c StatusCode) String() string {
	switch c {
	case StatusOutOfRange:
		return "OutOfRange"
	case StatusFailedPrecondition:
		return "FailedPrecondition"
	case StatusNotFound:
		return "NotFound"
	case StatusUnimplemented:
		return "Unimplemented"
	case StatusPermissionDenied:
		return "PermissionDenied"
	case StatusDeadlineExceeded:
		return "DeadlineExceeded"
	case StatusUnavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// Sentinel pass-through errors (spec §7): AccessDenied, DeadlineExceeded,
// ResourceNotFound, ResourceDeleted, UnsupportedFeature. These carry no
// payload beyond their identity, so plain package vars suffice; callers
// compare with errors.Is.
var (
	ErrAccessDenied     = New(MinPkgConnection+7, "access denied", nil)
	ErrDeadlineExceeded = New(MinPkgConnection+8, "deadline exceeded", nil)
	ErrResourceNotFound = New(MinPkgConnection+9, "resource not found", nil)
	ErrResourceDeleted  = New(MinPkgConnection+10, "resource deleted", nil)
	ErrUnsupportedFeature = New(MinPkgConnection+11, "unsupported feature", nil)
)

func init() {
	Register(MinPkgSettings, func(c CodeError) string {
		if c == codeParse {
			return "failed to parse connection settings"
		}
		return ""
	})

	Register(MinPkgConnection, func(c CodeError) string {
		switch c {
		case MinPkgConnection + 1:
			return "max discovery attempts reached"
		case MinPkgConnection + 2:
			return "grpc connection error"
		case MinPkgConnection + 3:
			return "connection closed"
		case MinPkgConnection + 4:
			return "server error"
		case MinPkgConnection + 5:
			return "not leader"
		case MinPkgConnection + 6:
			return "illegal operation"
		case MinPkgConnection + 7:
			return "access denied"
		case MinPkgConnection + 8:
			return "deadline exceeded"
		case MinPkgConnection + 9:
			return "resource not found"
		case MinPkgConnection + 10:
			return "resource deleted"
		case MinPkgConnection + 11:
			return "unsupported feature"
		}
		return ""
	})
}
