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

import (
	"strings"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// MessageType is the 4-character type tag of a framed agent message.
type MessageType string

const (
	// MessageData carries source packet data.
	MessageData MessageType = "DATA"
	// MessageTest carries test data.
	MessageTest MessageType = "TEST"
)

func parseMessageType(s string) (MessageType, error) {
	switch MessageType(s) {
	case MessageData:
		return MessageData, nil
	case MessageTest:
		return MessageTest, nil
	default:
		return "", gngerrors.Newf(gngerrors.Protocol, "unknown message type %q", s)
	}
}

// frameWidth is the length of "MSG_<prefix:8>_<type:4>: " preceding a
// framed message's payload.
const frameWidth = 4 + messagePrefixLen + 1 + 4 + 2

// findTypeAndContents splits line into (messageType, payload) if it is a
// framed message addressed to messagePrefix; otherwise it returns ("",
// line) unchanged, per spec §4.6.1.
func findTypeAndContents(messagePrefix, line string) (string, string) {
	if len(line) < frameWidth {
		return "", line
	}
	if !strings.HasPrefix(line, "MSG_") {
		return "", line
	}
	if line[4:4+messagePrefixLen] != messagePrefix {
		return "", line
	}
	if line[4+messagePrefixLen] != '_' {
		return "", line
	}
	typeStart := 4 + messagePrefixLen + 1
	typeEnd := typeStart + 4
	if line[typeEnd:typeEnd+2] != ": " {
		return "", line
	}
	return line[typeStart:typeEnd], line[typeEnd+2:]
}
