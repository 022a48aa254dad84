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

package handler

import (
	"sync"

	"github.com/gng-project/gng/pkg/sourcepacket"
)

// RecipeCell is the single-writer, multi-reader cell the query parser
// populates and every later handler observes (spec §4.8, §5).
type RecipeCell struct {
	mu    sync.RWMutex
	value *sourcepacket.SourcePacket
}

// NewRecipeCell returns an empty cell.
func NewRecipeCell() *RecipeCell {
	return &RecipeCell{}
}

// Set replaces the cell's contents. Only the query parser handler calls this.
func (c *RecipeCell) Set(v *sourcepacket.SourcePacket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
}

// Get returns the current contents and whether the cell has been populated.
func (c *RecipeCell) Get() (*sourcepacket.SourcePacket, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.value != nil
}
