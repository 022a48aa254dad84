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

// Package walker implements the deterministic directory walker (spec §4.3):
// a single-shot iterator that yields every entry of a subtree in a fixed
// total order (lexicographic by file name, directory node emitted before its
// children), regardless of the underlying filesystem's native directory
// order.
//
// # Usage
//
//	w, err := walker.New(rootDir)
//	if err != nil {
//	    return err
//	}
//	for {
//	    entry, ok, err := w.Next()
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(entry.RelativePath, entry.Kind)
//	}
package walker
