// Copyright (c) 2026, the gng-project contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package container

import "strings"

// BindingKind discriminates the variants of Binding.
type BindingKind int

const (
	// BindingRO bind-mounts Sources[0] read-only at Target.
	BindingRO BindingKind = iota
	// BindingRW bind-mounts Sources[0] read-write at Target.
	BindingRW
	// BindingTmpfs mounts an ephemeral tmpfs at Target.
	BindingTmpfs
	// BindingInaccessible hides Target inside the container.
	BindingInaccessible
	// BindingOverlay overlays Sources (lower-to-upper order) at Target,
	// writable.
	BindingOverlay
	// BindingOverlayRO overlays Sources at Target, read-only.
	BindingOverlayRO
)

// Binding is one mount entry applied to a Command, in the kinds described
// by spec §4.5.
type Binding struct {
	Kind    BindingKind
	Sources []string
	Target  string
}

// RO builds a read-only bind-mount binding.
func RO(src, dst string) Binding { return Binding{Kind: BindingRO, Sources: []string{src}, Target: dst} }

// RW builds a read-write bind-mount binding.
func RW(src, dst string) Binding { return Binding{Kind: BindingRW, Sources: []string{src}, Target: dst} }

// Tmpfs builds an ephemeral tmpfs binding.
func Tmpfs(dst string) Binding { return Binding{Kind: BindingTmpfs, Target: dst} }

// Inaccessible builds a binding that hides dst inside the container.
func Inaccessible(dst string) Binding { return Binding{Kind: BindingInaccessible, Target: dst} }

// Overlay builds a writable overlay binding over srcs at dst.
func Overlay(srcs []string, dst string) Binding {
	return Binding{Kind: BindingOverlay, Sources: append([]string(nil), srcs...), Target: dst}
}

// OverlayRO builds a read-only overlay binding over srcs at dst.
func OverlayRO(srcs []string, dst string) Binding {
	return Binding{Kind: BindingOverlayRO, Sources: append([]string(nil), srcs...), Target: dst}
}

// arg renders the launcher flag for this binding.
func (b Binding) arg() string {
	switch b.Kind {
	case BindingTmpfs:
		return "--tmpfs=" + b.Target
	case BindingRW:
		return "--bind=" + b.Sources[0] + ":" + b.Target
	case BindingRO:
		return "--bind-ro=" + b.Sources[0] + ":" + b.Target
	case BindingInaccessible:
		return "--inaccessible=" + b.Target
	case BindingOverlay:
		return "--overlay=" + joinOverlay(b.Sources, b.Target)
	case BindingOverlayRO:
		return "--overlay-ro=" + joinOverlay(b.Sources, b.Target)
	default:
		return ""
	}
}

func joinOverlay(sources []string, target string) string {
	var b strings.Builder
	for _, s := range sources {
		b.WriteString(s)
		b.WriteByte(':')
	}
	b.WriteString(target)
	return b.String()
}
