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

import "github.com/kurrent-io/kurrentdb-client-go/internal/errs"

type kind struct {
	code errs.CodeError
	msg  string
}

func (k kind) withParent(parent error) errs.Error {
	return errs.New(k.code, k.msg, parent)
}

const (
	codeSystemRootCA errs.CodeError = errs.MinPkgTransport + iota + 1
	codeRootCAFile
	codeClientCertificate
)

var (
	ErrSystemRootCA      = kind{codeSystemRootCA, "could not load platform root CA pool"}
	ErrRootCAFile        = kind{codeRootCAFile, "could not load root CA file"}
	ErrClientCertificate = kind{codeClientCertificate, "could not load client certificate pair"}
)

func init() {
	errs.Register(errs.MinPkgTransport, func(c errs.CodeError) string {
		switch c {
		case codeSystemRootCA:
			return ErrSystemRootCA.msg
		case codeRootCAFile:
			return ErrRootCAFile.msg
		case codeClientCertificate:
			return ErrClientCertificate.msg
		}
		return ""
	})
}
