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

	"github.com/go-playground/validator/v10"

	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
)

// Validate re-checks the struct-level invariants Parse already enforces.
// It is never called automatically: Parse validates inline because it
// needs to report the *specific* offending fragment (bad seed, unpaired
// cert), not a generic field-tag violation. Validate exists for callers
// that build a Settings by hand and want the same paired-file / non-empty
// checks applied, in the shape of cluster/configGossip.go's Validate.
func (s Settings) Validate() errs.Error {
	v := validator.New()
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	if _, ok := err.(*validator.InvalidValidationError); ok {
		return errs.New(errs.MinPkgSettings+2, "invalid settings value", err)
	}

	fe := err.(validator.ValidationErrors)[0]
	return errs.New(errs.MinPkgSettings+2, "settings validation failed",
		fmt.Errorf("field %q failed constraint %q", fe.Field(), fe.ActualTag()))
}

func init() {
	errs.Register(errs.MinPkgSettings, func(c errs.CodeError) string {
		if c == errs.MinPkgSettings+2 {
			return "settings validation failed"
		}
		return ""
	})
}
