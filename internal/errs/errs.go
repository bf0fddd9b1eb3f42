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
	"errors"
	"fmt"
)

// Error extends the standard error with a numeric Code and an optional
// parent, in the teacher's chaining idiom, so callers can both pattern
// match on concrete taxonomy types (via errors.As) and inspect a coarse
// code for logging.
type Error interface {
	error
	Code() CodeError
	Unwrap() error
}

type ers struct {
	code   CodeError
	msg    string
	parent error
}

// New builds a base Error. msg may be empty, in which case Code().Message()
// is used when the error is formatted.
func New(code CodeError, msg string, parent error) Error {
	return &ers{code: code, msg: msg, parent: parent}
}

func (e *ers) Code() CodeError { return e.code }
func (e *ers) Unwrap() error   { return e.parent }

func (e *ers) Error() string {
	msg := e.msg
	if msg == "" {
		msg = e.code.Message()
	}
	if e.parent != nil {
		return fmt.Sprintf("%s: %s", msg, e.parent.Error())
	}
	return msg
}

// Is reports whether target is an Error carrying the same code, or
// delegates to the standard chain otherwise.
func (e *ers) Is(target error) bool {
	var t Error
	if errors.As(target, &t) {
		return t.Code() == e.code
	}
	return false
}
