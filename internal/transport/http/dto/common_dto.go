package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CreatedResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

// ID accepts both 42 and "42" in request bodies.
type ID int64

func (id *ID) UnmarshalJSON(raw []byte) error {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" || text == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", text)
	}
	*id = ID(v)
	return nil
}

// Text accepts a JSON string or a JSON number. Numbers keep their literal
// text, so 9.99 decodes to "9.99".
type Text string

func (t *Text) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		*t = ""
		return nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", raw)
	}
	*t = Text(n.String())
	return nil
}

type DeleteRequest struct {
	ID ID `json:"id"`
}
