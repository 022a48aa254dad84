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

package script

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// Reference is a minimal, deterministic Evaluator with no embedded
// scripting language: a "recipe" is a sequence of newline-separated
// statements of the form
//
//	set <name> <value>
//	call <function> [arg...]
//	return <name>
//
// Blank lines and lines starting with "#" are ignored. Each statement
// consumes one instruction; "set" additionally charges len(value) bytes
// against the memory budget (injected constants are charged the same way
// up front). EvaluateRecipe returns the recipe's globals as a JSON object,
// unless a "return <name>" statement selects a single global to return.
//
// Reference exists so this package's own tests (and any caller that needs
// only constant injection and host-function dispatch, not a real language)
// do not depend on an embedded runtime.
type Reference struct {
	budget       Budget
	functions    map[string]HostFunction
	globals      map[string]string
	instructions uint64
	memoryBytes  uint64
}

// NewReference returns a Reference with no budget, no constants, and no
// registered functions.
func NewReference() *Reference {
	return &Reference{
		functions: make(map[string]HostFunction),
		globals:   make(map[string]string),
	}
}

// SetBudget implements Evaluator.
func (r *Reference) SetBudget(budget Budget) {
	r.budget = budget
}

// Inject implements Evaluator.
func (r *Reference) Inject(name, value string) {
	r.memoryBytes += uint64(len(value))
	r.globals[name] = value
}

// Register implements Evaluator.
func (r *Reference) Register(name string, fn HostFunction) {
	r.functions[name] = fn
}

// EvaluateRecipe implements Evaluator.
func (r *Reference) EvaluateRecipe(script string) (json.RawMessage, error) {
	var returnName string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.chargeInstruction(); err != nil {
			return nil, err
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "set":
			if len(fields) < 2 {
				return nil, gngerrors.Newf(gngerrors.Config, "malformed set statement: %q", line)
			}
			name := fields[1]
			value := strings.Join(fields[2:], " ")
			if err := r.chargeMemory(uint64(len(value))); err != nil {
				return nil, err
			}
			r.globals[name] = value
		case "call":
			if len(fields) < 2 {
				return nil, gngerrors.Newf(gngerrors.Config, "malformed call statement: %q", line)
			}
			if _, err := r.invoke(fields[1], fields[2:]); err != nil {
				return nil, err
			}
		case "return":
			if len(fields) != 2 {
				return nil, gngerrors.Newf(gngerrors.Config, "malformed return statement: %q", line)
			}
			returnName = fields[1]
		default:
			return nil, gngerrors.Newf(gngerrors.Config, "unknown statement: %q", line)
		}
	}

	if returnName != "" {
		value, ok := r.globals[returnName]
		if !ok {
			return nil, gngerrors.Newf(gngerrors.Config, "return references undefined global %q", returnName)
		}
		return jsonString(value)
	}
	return json.Marshal(r.globals)
}

// Call implements Evaluator.
func (r *Reference) Call(function string, args ...string) (json.RawMessage, error) {
	if err := r.chargeInstruction(); err != nil {
		return nil, err
	}
	return r.invoke(function, args)
}

func (r *Reference) invoke(function string, args []string) (json.RawMessage, error) {
	fn, ok := r.functions[function]
	if !ok {
		return nil, gngerrors.Newf(gngerrors.Config, "no such host function %q", function)
	}
	return fn(args...)
}

func (r *Reference) chargeInstruction() error {
	r.instructions++
	if r.budget.MaxInstructions != 0 && r.instructions > r.budget.MaxInstructions {
		return gngerrors.Newf(gngerrors.ScriptLimit, "exceeded instruction budget of %d", r.budget.MaxInstructions)
	}
	return nil
}

func (r *Reference) chargeMemory(n uint64) error {
	r.memoryBytes += n
	if r.budget.MaxMemoryBytes != 0 && r.memoryBytes > r.budget.MaxMemoryBytes {
		return gngerrors.Newf(gngerrors.ScriptLimit, "exceeded memory budget of %d bytes", r.budget.MaxMemoryBytes)
	}
	return nil
}

// globalNames returns every global name currently set, sorted, for
// deterministic test assertions.
func (r *Reference) globalNames() []string {
	names := make([]string, 0, len(r.globals))
	for name := range r.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
