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

package config

import (
	"os"
	"testing"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KURRENTDB_CONNECTION_STRING", "esdb://localhost:2113?tls=false")

	l := New(t.TempDir())
	s, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Secure {
		t.Fatal("expected tls=false to disable Secure")
	}
}

func TestLoadMissingConnectionString(t *testing.T) {
	os.Unsetenv("KURRENTDB_CONNECTION_STRING")

	l := New(t.TempDir())
	if _, err := l.Load(); err == nil {
		t.Fatal("expected an error with no connection string configured anywhere")
	}
}

func TestLoadPropagatesParseError(t *testing.T) {
	t.Setenv("KURRENTDB_CONNECTION_STRING", "not-a-valid-scheme://host")

	l := New(t.TempDir())
	if _, err := l.Load(); err == nil {
		t.Fatal("expected settings.Parse's error to propagate")
	}
}
