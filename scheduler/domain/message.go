package domain

import (
	"fmt"
	"strings"
)

// StatusMessage is a decoded "<kind> <id> <status>" notification from the status queue.
type StatusMessage struct {
	Kind   Kind
	ID     string
	Status string
}

func (m StatusMessage) String() string {
	return fmt.Sprintf("%s %s %s", m.Kind, m.ID, m.Status)
}

// ParseStatusMessage splits a raw queue message. Only the shape and the kind are
// validated here, the status code is interpreted by the state machine for that kind.
func ParseStatusMessage(raw string) (StatusMessage, error) {
	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return StatusMessage{}, &ProtocolError{Raw: raw, Reason: "expected \"<kind> <id> <status>\""}
	}
	kind := Kind(fields[0])
	if kind != KindJob && kind != KindTask {
		return StatusMessage{}, &ProtocolError{Raw: raw, Reason: "unknown kind"}
	}
	return StatusMessage{Kind: kind, ID: fields[1], Status: fields[2]}, nil
}
