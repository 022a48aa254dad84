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
	"testing"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference_EvaluateRecipe_SetsGlobals(t *testing.T) {
	r := NewReference()
	out, err := r.EvaluateRecipe("set name example\nset version 1.0.0")
	require.NoError(t, err)

	var globals map[string]string
	require.NoError(t, json.Unmarshal(out, &globals))
	assert.Equal(t, map[string]string{"name": "example", "version": "1.0.0"}, globals)
	assert.Equal(t, []string{"name", "version"}, r.globalNames())
}

func TestReference_EvaluateRecipe_ReturnStatementSelectsOneGlobal(t *testing.T) {
	r := NewReference()
	out, err := r.EvaluateRecipe("set name example\nreturn name")
	require.NoError(t, err)

	var name string
	require.NoError(t, json.Unmarshal(out, &name))
	assert.Equal(t, "example", name)
}

func TestReference_EvaluateRecipe_SkipsBlankAndCommentLines(t *testing.T) {
	r := NewReference()
	out, err := r.EvaluateRecipe("\n# a comment\n\nset name example\n")
	require.NoError(t, err)

	var globals map[string]string
	require.NoError(t, json.Unmarshal(out, &globals))
	assert.Equal(t, map[string]string{"name": "example"}, globals)
}

func TestReference_EvaluateRecipe_RejectsUnknownStatement(t *testing.T) {
	r := NewReference()
	_, err := r.EvaluateRecipe("frobnicate")
	require.Error(t, err)
	var ge *gngerrors.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, gngerrors.Config, ge.Kind)
}

func TestReference_EvaluateRecipe_ReturnOfUndefinedGlobalFails(t *testing.T) {
	r := NewReference()
	_, err := r.EvaluateRecipe("return missing")
	require.Error(t, err)
}

func TestReference_CallInvokesRegisteredHostFunction(t *testing.T) {
	r := NewReference()
	var gotArgs []string
	r.Register("double", func(args ...string) (json.RawMessage, error) {
		gotArgs = args
		return json.Marshal(args[0] + args[0])
	})

	out, err := r.Call("double", "ab")
	require.NoError(t, err)

	var result string
	require.NoError(t, json.Unmarshal(out, &result))
	assert.Equal(t, "abab", result)
	assert.Equal(t, []string{"ab"}, gotArgs)
}

func TestReference_CallOfUnregisteredFunctionFails(t *testing.T) {
	r := NewReference()
	_, err := r.Call("missing")
	require.Error(t, err)
	var ge *gngerrors.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, gngerrors.Config, ge.Kind)
}

func TestReference_ExceedingInstructionBudgetFailsWithScriptLimit(t *testing.T) {
	r := NewReference()
	r.SetBudget(Budget{MaxInstructions: 2})

	_, err := r.EvaluateRecipe("set a 1\nset b 2\nset c 3")
	require.Error(t, err)
	var ge *gngerrors.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, gngerrors.ScriptLimit, ge.Kind)
}

func TestReference_ExceedingMemoryBudgetFailsWithScriptLimit(t *testing.T) {
	r := NewReference()
	r.SetBudget(Budget{MaxMemoryBytes: 4})

	_, err := r.EvaluateRecipe("set a 12345")
	require.Error(t, err)
	var ge *gngerrors.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, gngerrors.ScriptLimit, ge.Kind)
}

func TestReference_InjectedConstantsCountAgainstMemoryBudget(t *testing.T) {
	r := NewReference()
	r.Inject("WORK_DIR", "0123456789")
	r.SetBudget(Budget{MaxMemoryBytes: 5})

	_, err := r.EvaluateRecipe("set a 1")
	require.Error(t, err)
	var ge *gngerrors.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, gngerrors.ScriptLimit, ge.Kind)
}

func TestReference_InjectedConstantsAreVisibleAsGlobals(t *testing.T) {
	r := NewReference()
	r.Inject("WORK_DIR", "/tmp/work")

	out, err := r.EvaluateRecipe("return WORK_DIR")
	require.NoError(t, err)

	var value string
	require.NoError(t, json.Unmarshal(out, &value))
	assert.Equal(t, "/tmp/work", value)
}
