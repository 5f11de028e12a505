package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StudentNumber accepts a JSON string or integer. Student numbers arrive as
// either, depending on the client keypad, and are kept as trimmed text.
type StudentNumber string

func (sn *StudentNumber) UnmarshalJSON(data []byte) error {
	if sn == nil {
		return fmt.Errorf("student number: nil receiver")
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*sn = StudentNumber(strings.TrimSpace(s))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err == nil {
		if _, err := num.Int64(); err != nil {
			return fmt.Errorf("student number must be a whole number, got %s", num)
		}
		*sn = StudentNumber(num.String())
		return nil
	}

	return fmt.Errorf("student number must be a string or number, got %s", string(data))
}

func (sn StudentNumber) String() string {
	return string(sn)
}
