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

package connection

import (
	"testing"

	"github.com/hashicorp/go-version"
)

func TestSupportsFeatureExplicitFlag(t *testing.T) {
	v, _ := version.NewVersion("21.6.0")
	info := ServerInfo{Version: v, Features: map[string]bool{"gossip.read": true}}

	if !info.SupportsFeature("gossip.read", nil) {
		t.Fatal("expected explicit feature flag to win regardless of minVersion")
	}
}

func TestSupportsFeatureVersionFloor(t *testing.T) {
	v, _ := version.NewVersion("23.10.0")
	info := ServerInfo{Version: v, Features: map[string]bool{}}

	min, _ := version.NewVersion("22.0.0")
	if !info.SupportsFeature("some.newer.rpc", min) {
		t.Fatal("expected version floor to satisfy an unflagged feature")
	}

	tooNew, _ := version.NewVersion("99.0.0")
	if info.SupportsFeature("some.newer.rpc", tooNew) {
		t.Fatal("expected version below floor to fail")
	}
}

func TestSupportsFeatureNoFloorNoFlag(t *testing.T) {
	v, _ := version.NewVersion("1.0.0")
	info := ServerInfo{Version: v, Features: map[string]bool{}}

	if info.SupportsFeature("unknown", nil) {
		t.Fatal("expected false with neither a flag nor a version floor")
	}
}

func TestDefaultServerInfoIsZeroVersion(t *testing.T) {
	info := defaultServerInfo()
	if info.Version == nil {
		t.Fatal("expected a non-nil placeholder version")
	}
	if info.Version.String() != "0.0.0" {
		t.Fatalf("got %s", info.Version.String())
	}
	if len(info.Features) != 0 {
		t.Fatalf("expected no features, got %v", info.Features)
	}
}
