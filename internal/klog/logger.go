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

package klog

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the interface the connection engine's components log through.
// It never accepts a raw format string: callers attach structured fields
// with With and log a short message, matching gossip/selection/supervisor
// events that are more useful as (event, endpoint, attempt, ...) tuples
// than as prose.
type Logger interface {
	With(fields Fields) Logger
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type entry struct {
	base *logrus.Logger
	f    Fields
}

// New builds a Logger writing to w at the given level. A nil w defaults
// to os.Stderr.
func New(level Level, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level.logrus())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &entry{base: l}
}

func (e *entry) With(fields Fields) Logger {
	return &entry{base: e.base, f: e.f.Merge(fields)}
}

func (e *entry) Debug(msg string) { e.log(logrus.DebugLevel, msg) }
func (e *entry) Info(msg string)  { e.log(logrus.InfoLevel, msg) }
func (e *entry) Warn(msg string)  { e.log(logrus.WarnLevel, msg) }
func (e *entry) Error(msg string) { e.log(logrus.ErrorLevel, msg) }

func (e *entry) log(lvl logrus.Level, msg string) {
	e.base.WithFields(logrus.Fields(e.f)).Log(lvl, msg)
}

var (
	defaultMu  sync.RWMutex
	defaultLog Logger = New(InfoLevel, nil)
)

// Default returns the package-wide logger used by components that are not
// explicitly configured with one (e.g. constructed via settings.Parse
// without a supervisor option).
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLog
}

// SetDefault replaces the package-wide logger.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLog = l
}
