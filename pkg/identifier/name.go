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
	"sort"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// Name is a validated packet/source name.
type Name struct {
	value string
}

// NewName validates value and returns a Name.
func NewName(value string) (Name, error) {
	if value == "" {
		return Name{}, gngerrors.New(gngerrors.Config, "name must not be empty")
	}
	if !startAlnum(value) {
		return Name{}, gngerrors.Newf(gngerrors.Config, "name %q must start with a lowercase letter or digit", value)
	}
	if !allNameChars(value) {
		return Name{}, gngerrors.Newf(gngerrors.Config, "name %q must consist of lowercase letters, digits, or '_' only", value)
	}
	return Name{value: value}, nil
}

// MustName parses value and panics on error. Only use for compile-time
// constants and test fixtures.
func MustName(value string) Name {
	n, err := NewName(value)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the textual form of the Name.
func (n Name) String() string { return n.value }

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool { return n.value == "" }

// Compare returns -1, 0, or 1 as n is less than, equal to, or greater than other.
func (n Name) Compare(other Name) int {
	switch {
	case n.value < other.value:
		return -1
	case n.value > other.value:
		return 1
	default:
		return 0
	}
}

// Less reports whether n sorts before other.
func (n Name) Less(other Name) bool { return n.Compare(other) < 0 }

// MarshalJSON implements json.Marshaler.
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Name) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func startAlnum(s string) bool {
	if s == "" {
		return true
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func allNameChars(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

// Names is a sorted, deduplicated set of Name, preserving set semantics.
type Names struct {
	values []Name
}

// NewNames builds a Names set from the given values, sorting and
// deduplicating them.
func NewNames(values ...Name) Names {
	n := Names{values: append([]Name(nil), values...)}
	n.fix()
	return n
}

// Insert adds a Name to the set, keeping it sorted and deduplicated.
func (n *Names) Insert(name Name) {
	n.values = append(n.values, name)
	n.fix()
}

// Merge adds every Name from other into n.
func (n *Names) Merge(other Names) {
	n.values = append(n.values, other.values...)
	n.fix()
}

// Contains reports whether name is a member of the set.
func (n Names) Contains(name Name) bool {
	i := sort.Search(len(n.values), func(i int) bool { return !n.values[i].Less(name) })
	return i < len(n.values) && n.values[i] == name
}

// IsSubsetOf reports whether every member of n is also a member of other.
func (n Names) IsSubsetOf(other Names) bool {
	for _, v := range n.values {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Len returns the number of names in the set.
func (n Names) Len() int { return len(n.values) }

// IsEmpty reports whether the set has no members.
func (n Names) IsEmpty() bool { return len(n.values) == 0 }

// Slice returns a copy of the set's members in sorted order.
func (n Names) Slice() []Name {
	return append([]Name(nil), n.values...)
}

// MarshalJSON implements json.Marshaler, encoding the set as a JSON array.
func (n Names) MarshalJSON() ([]byte, error) {
	if n.values == nil {
		return json.Marshal([]Name{})
	}
	return json.Marshal(n.values)
}

// UnmarshalJSON implements json.Unmarshaler, decoding a JSON array and
// re-sorting and deduplicating it.
func (n *Names) UnmarshalJSON(data []byte) error {
	var values []Name
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*n = NewNames(values...)
	return nil
}

func (n *Names) fix() {
	sort.Slice(n.values, func(i, j int) bool { return n.values[i].Less(n.values[j]) })
	deduped := make([]Name, 0, len(n.values))
	for i, v := range n.values {
		if i == 0 || deduped[len(deduped)-1] != v {
			deduped = append(deduped, v)
		}
	}
	n.values = deduped
}
