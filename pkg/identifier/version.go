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

package identifier

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// Version is the triple (epoch, upstream, release) described in spec §3.
type Version struct {
	epoch    uint32
	upstream string
	release  string
}

// NewVersion validates the three fields and returns a Version.
func NewVersion(epoch uint32, upstream, release string) (Version, error) {
	if upstream == "" {
		return Version{}, gngerrors.New(gngerrors.Config, "version upstream part must not be empty")
	}
	if !allVersionChars(upstream) {
		return Version{}, gngerrors.Newf(gngerrors.Config, "version upstream %q must consist of lowercase letters, digits, '.', or '_'", upstream)
	}
	if !startAlnum(upstream) {
		return Version{}, gngerrors.Newf(gngerrors.Config, "version upstream %q must start with a lowercase letter or digit", upstream)
	}
	if !allVersionChars(release) {
		return Version{}, gngerrors.Newf(gngerrors.Config, "version release %q must consist of lowercase letters, digits, '.', or '_'", release)
	}
	if !startAlnum(release) {
		return Version{}, gngerrors.Newf(gngerrors.Config, "version release %q must start with a lowercase letter or digit", release)
	}
	return Version{epoch: epoch, upstream: upstream, release: release}, nil
}

// MustVersion parses value and panics on error. Only use for compile-time
// constants and test fixtures.
func MustVersion(epoch uint32, upstream, release string) Version {
	v, err := NewVersion(epoch, upstream, release)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseVersion parses the grammar "[epoch:]upstream[-release]".
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, gngerrors.New(gngerrors.Config, "version string must not be empty")
	}

	rest := s
	var epoch uint32
	if idx := strings.IndexByte(s, ':'); idx > 0 {
		epochVal, err := strconv.ParseUint(s[:idx], 10, 32)
		if err != nil {
			return Version{}, gngerrors.Wrapf(gngerrors.Config, err, "invalid epoch in version %q", s)
		}
		epoch = uint32(epochVal)
		rest = s[idx+1:]
	}

	upstream := rest
	release := ""
	if idx := strings.IndexByte(rest, '-'); idx > 0 {
		upstream = rest[:idx]
		release = rest[idx+1:]
	}

	return NewVersion(epoch, upstream, release)
}

// Epoch returns the epoch component.
func (v Version) Epoch() uint32 { return v.epoch }

// Upstream returns the upstream component.
func (v Version) Upstream() string { return v.upstream }

// Release returns the release component.
func (v Version) Release() string { return v.release }

// String formats the version back into "[epoch:]upstream[-release]" form,
// omitting a zero epoch and an empty release.
func (v Version) String() string {
	var b strings.Builder
	if v.epoch != 0 {
		fmt.Fprintf(&b, "%d:", v.epoch)
	}
	b.WriteString(v.upstream)
	if v.release != "" {
		b.WriteByte('-')
		b.WriteString(v.release)
	}
	return b.String()
}

// Compare returns -1, 0, or 1 comparing epoch, then upstream, then release.
func (v Version) Compare(other Version) int {
	if v.epoch != other.epoch {
		if v.epoch < other.epoch {
			return -1
		}
		return 1
	}
	if v.upstream != other.upstream {
		if v.upstream < other.upstream {
			return -1
		}
		return 1
	}
	switch {
	case v.release < other.release:
		return -1
	case v.release > other.release:
		return 1
	default:
		return 0
	}
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// MarshalJSON implements json.Marshaler.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func allVersionChars(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '.') {
			return false
		}
	}
	return true
}
