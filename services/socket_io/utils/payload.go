package socketio_utils

import (
	"encoding/json"
	"fmt"
)

// DecodePayload converts a loosely-typed socket.io argument into an explicit
// request struct. Events arrive as generic maps after JSON parsing, so a
// re-marshal round trip validates the shape at the boundary instead of
// sprinkling type assertions through the handlers.
func DecodePayload(arg interface{}, out interface{}) error {
	raw, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("error encoding event payload: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("error decoding event payload: %v", err)
	}
	return nil
}

// StringArg extracts a plain string argument (room ids, game names).
func StringArg(args []interface{}, index int) (string, bool) {
	if index >= len(args) {
		return "", false
	}
	value, ok := args[index].(string)
	return value, ok
}
