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

// Package errs is the error taxonomy of the connection engine (spec §7),
// built in the idiom of the teacher's package-scoped CodeError registry:
// every component owns a contiguous range of codes and registers a message
// function for them, and every error carries an optional parent for
// chaining, compatible with errors.Is/errors.As.
package errs

import "strconv"

// CodeError is a small numeric classification, one contiguous range per
// component (see the MinPkg* constants below), mirroring HTTP-style status
// code conventions without colliding with them.
type CodeError uint16

const UnknownError CodeError = 0

const (
	MinPkgSettings CodeError = (iota + 1) * 100
	MinPkgTransport
	MinPkgGossip
	MinPkgSelector
	MinPkgConnection
	MinPkgWire
)

var registry = make(map[CodeError][]func(CodeError) string)

// Register associates a message function with a component's MinPkg* base.
// Multiple components may register against the same base (e.g. several
// files within one package each owning a sub-range of its codes);
// Message tries every registered function for the nearest base at or
// below a code until one returns a non-empty string.
func Register(base CodeError, fct func(CodeError) string) {
	registry[base] = append(registry[base], fct)
}

// Message renders the human string for a code, consulting the nearest
// registered base at or below code. Unregistered codes render their
// numeric value.
func (c CodeError) Message() string {
	if c == UnknownError {
		return "unknown error"
	}

	var best CodeError
	var fcts []func(CodeError) string
	found := false
	for base, fs := range registry {
		if base <= c && (!found || base >= best) {
			best, fcts, found = base, fs, true
		}
	}

	for _, fct := range fcts {
		if m := fct(c); m != "" {
			return m
		}
	}

	return "error " + strconv.Itoa(int(c))
}
