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

package packager

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides whether an Entry belongs to a packet or facet. Evaluation
// is pure: the same Entry must always yield the same answer.
type Filter interface {
	Matches(e *Entry) (bool, error)
}

// globFilter matches an entry's path against a set of shell globs.
type globFilter struct {
	patterns []string
}

// Glob builds a Filter that accepts paths matching any of patterns. Patterns
// use doublestar syntax, so "f1/**" matches every path nested under "f1/".
func Glob(patterns ...string) Filter {
	cp := make([]string, len(patterns))
	copy(cp, patterns)
	return globFilter{patterns: cp}
}

func (f globFilter) Matches(e *Entry) (bool, error) {
	for _, p := range f.patterns {
		ok, err := doublestar.Match(p, e.Path)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// mimeFilter matches an entry's sniffed content type against a set of
// regular expressions.
type mimeFilter struct {
	patterns []*regexp.Regexp
}

// Mime builds a Filter that accepts regular files whose sniffed MIME type
// matches any of the given regular expressions.
func Mime(patterns ...*regexp.Regexp) Filter {
	cp := make([]*regexp.Regexp, len(patterns))
	copy(cp, patterns)
	return mimeFilter{patterns: cp}
}

func (f mimeFilter) Matches(e *Entry) (bool, error) {
	mime, err := e.MimeType()
	if err != nil {
		return false, err
	}
	for _, p := range f.patterns {
		if p.MatchString(mime) {
			return true, nil
		}
	}
	return false, nil
}

type alwaysTrueFilter struct{}

// AlwaysTrue is a Filter that accepts every entry; it must be the filter of
// the catch-all main facet.
func AlwaysTrue() Filter { return alwaysTrueFilter{} }

func (alwaysTrueFilter) Matches(*Entry) (bool, error) { return true, nil }

type alwaysFalseFilter struct{}

// AlwaysFalse is a Filter that rejects every entry.
func AlwaysFalse() Filter { return alwaysFalseFilter{} }

func (alwaysFalseFilter) Matches(*Entry) (bool, error) { return false, nil }

type andFilter struct{ left, right Filter }

// And builds a Filter that accepts an entry only when both left and right
// accept it.
func And(left, right Filter) Filter { return andFilter{left: left, right: right} }

func (f andFilter) Matches(e *Entry) (bool, error) {
	ok, err := f.left.Matches(e)
	if err != nil || !ok {
		return false, err
	}
	return f.right.Matches(e)
}

type orFilter struct{ left, right Filter }

// Or builds a Filter that accepts an entry when either left or right
// accepts it.
func Or(left, right Filter) Filter { return orFilter{left: left, right: right} }

func (f orFilter) Matches(e *Entry) (bool, error) {
	ok, err := f.left.Matches(e)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return f.right.Matches(e)
}
