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

// Package config is additive sugar around settings.Parse: it lets an
// application source the connection string from a config file, an
// environment variable, or a flag, via viper, the teacher's configuration
// library of choice.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kurrent-io/kurrentdb-client-go/internal/errs"
	"github.com/kurrent-io/kurrentdb-client-go/settings"
)

// Key is the viper key the connection string is read from.
const Key = "kurrentdb.connection_string"

// Loader wraps a *viper.Viper preconfigured to read the connection
// string from (in ascending priority) a config file, the
// KURRENTDB_CONNECTION_STRING environment variable, and an explicitly
// bound flag.
type Loader struct {
	v *viper.Viper
}

// New builds a Loader. configPaths are added as additional search paths
// for a "kurrentdb" config file (any extension viper supports); none are
// required to exist.
func New(configPaths ...string) *Loader {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("kurrentdb")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	return &Loader{v: v}
}

// BindPFlag gives a pflag (e.g. cobra's --connection-string) the highest
// priority over the config file and environment variable for Key.
func (l *Loader) BindPFlag(flag *pflag.Flag) error {
	return l.v.BindPFlag(Key, flag)
}

// Load reads the config file if present (a missing file is not an
// error) and returns the parsed Settings.
func (l *Loader) Load() (settings.Settings, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return settings.Settings{}, errs.New(errs.MinPkgSettings+3, "failed to read config file", err)
		}
	}

	raw := l.v.GetString(Key)
	if raw == "" {
		return settings.Settings{}, errs.New(errs.MinPkgSettings+4, "no connection string configured", nil)
	}

	return settings.Parse(raw)
}

func init() {
	errs.Register(errs.MinPkgSettings, func(c errs.CodeError) string {
		switch c {
		case errs.MinPkgSettings + 3:
			return "failed to read config file"
		case errs.MinPkgSettings + 4:
			return "no connection string configured"
		}
		return ""
	})
}
