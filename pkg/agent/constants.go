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

package agent

// In-container paths every phase's command is built against.
const (
	containerGngDir          = "/gng"
	containerAgentExecutable = containerGngDir + "/build-agent"
	containerWorkDir         = containerGngDir + "/work"
	containerInstallDir      = containerGngDir + "/inst"
	containerLuaDir          = containerGngDir + "/lua"
)

// Environment variable names carried into the container.
const (
	envBuildAgent     = "GNG_BUILD_AGENT"
	envWorkDir        = "GNG_WORK_DIR"
	envInstallDir     = "GNG_INST_DIR"
	envLuaDir         = "GNG_LUA_DIR"
	envMessagePrefix  = "GNG_AGENT_MESSAGE_PREFIX"
	envLogLevel       = "GNG_LOG"
	envLogFormat      = "GNG_LOG_FORMAT"
	defaultAgentOut   = "AGENT[stdout]> "
	defaultAgentErr   = "AGENT[stderr]> "
	messagePrefixLen  = 8
	messagePrefixAlph = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)
