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

package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
)

type echoRequest struct {
	Value string `json:"value"`
}

type echoResponse struct {
	Value string `json:"value"`
}

func newTestConn(t *testing.T, handler http.HandlerFunc) (*Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	conn := &Conn{base: srv.URL, client: srv.Client()}
	return conn, srv.Close
}

func TestCallSuccessRoundTrip(t *testing.T) {
	conn, closeSrv := newTestConn(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != contentType {
			t.Fatalf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(`{"value":"pong"}`))
	})
	defer closeSrv()

	var resp echoResponse
	err := conn.Call(context.Background(), "/echo", echoRequest{Value: "ping"}, &resp, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.Value != "pong" {
		t.Fatalf("got %q", resp.Value)
	}
}

func TestCallBasicAuthSent(t *testing.T) {
	var gotUser, gotPass string
	conn, closeSrv := newTestConn(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.Write([]byte(`{}`))
	})
	defer closeSrv()

	var resp struct{}
	err := conn.Call(context.Background(), "/echo", echoRequest{}, &resp, &BasicCreds{Username: "admin", Password: "changeit"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if gotUser != "admin" || gotPass != "changeit" {
		t.Fatalf("got user=%q pass=%q", gotUser, gotPass)
	}
}

func TestCallGrpcStatusHeaderSurfaced(t *testing.T) {
	conn, closeSrv := newTestConn(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(grpcStatusHeader, "1")
		w.Header().Set(grpcMessageHeader, "out of range")
		w.WriteHeader(http.StatusOK)
	})
	defer closeSrv()

	err := conn.Call(context.Background(), "/echo", echoRequest{}, nil, nil)
	var status *errs.Status
	if err == nil {
		t.Fatal("expected error")
	}
	status, ok := err.(*errs.Status)
	if !ok {
		t.Fatalf("expected *errs.Status, got %T", err)
	}
	if status.Code != errs.StatusOutOfRange {
		t.Fatalf("got code %v", status.Code)
	}
}

func TestCallNotFoundMapsToStatusNotFound(t *testing.T) {
	conn, closeSrv := newTestConn(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer closeSrv()

	err := conn.Call(context.Background(), "/echo", echoRequest{}, nil, nil)
	status, ok := err.(*errs.Status)
	if !ok {
		t.Fatalf("expected *errs.Status, got %T (%v)", err, err)
	}
	if status.Code != errs.StatusNotFound {
		t.Fatalf("got code %v", status.Code)
	}
}

func TestCallNotImplementedMapsToStatusUnimplemented(t *testing.T) {
	conn, closeSrv := newTestConn(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})
	defer closeSrv()

	err := conn.Call(context.Background(), "/echo", echoRequest{}, nil, nil)
	status, ok := err.(*errs.Status)
	if !ok {
		t.Fatalf("expected *errs.Status, got %T (%v)", err, err)
	}
	if status.Code != errs.StatusUnimplemented {
		t.Fatalf("got code %v", status.Code)
	}
}
