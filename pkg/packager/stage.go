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

// Stage is a node in the routing tree that entries are pushed through.
type Stage interface {
	// Package offers e to this stage, returning true if it was consumed.
	Package(e *Entry) (bool, error)
	// Finish flushes any owned archives and reports the paths produced.
	Finish() ([]string, error)
}

// filteredStage forwards entries accepted by filter to inner, rejecting the
// rest without consuming them.
type filteredStage struct {
	name   string
	filter Filter
	inner  Stage
}

// Filtered builds a Stage that only offers matching entries to inner.
func Filtered(name string, filter Filter, inner Stage) Stage {
	return &filteredStage{name: name, filter: filter, inner: inner}
}

func (s *filteredStage) Package(e *Entry) (bool, error) {
	ok, err := s.filter.Matches(e)
	if err != nil || !ok {
		return false, err
	}
	return s.inner.Package(e)
}

func (s *filteredStage) Finish() ([]string, error) { return s.inner.Finish() }

// switchingStage offers each entry to its children in order, stopping at
// the first to consume it.
type switchingStage struct {
	children []Stage
}

// Switching builds a Stage that tries each child in order.
func Switching(children ...Stage) Stage {
	return &switchingStage{children: children}
}

func (s *switchingStage) Package(e *Entry) (bool, error) {
	for _, c := range s.children {
		ok, err := c.Package(e)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Finish flushes every child stage, collecting any errors but returning
// only the first (spec §4.4): every archive still gets a chance to close.
func (s *switchingStage) Finish() ([]string, error) {
	var paths []string
	var firstErr error
	for _, c := range s.children {
		p, err := c.Finish()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		paths = append(paths, p...)
	}
	return paths, firstErr
}
