package backend

import (
	"bytes"
	"encoding/json"
)

// Envelope is the loose {success, message, data} shape the backend answers
// with. Fields of an unexpected type are left at their zero value.
type Envelope struct {
	Success bool
	Message string
	Detail  string
	Error   string
	Data    map[string]any
	Valid   bool
}

func (r *Response) Envelope() Envelope {
	var raw map[string]any
	decoder := json.NewDecoder(bytes.NewReader(r.Body))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil || raw == nil {
		return Envelope{}
	}

	env := Envelope{Valid: true}
	env.Success, _ = raw["success"].(bool)
	env.Message, _ = raw["message"].(string)
	env.Detail, _ = raw["detail"].(string)
	env.Error, _ = raw["error"].(string)
	env.Data, _ = raw["data"].(map[string]any)

	return env
}

// DataString returns data[key] when it is a non-empty string.
func (e Envelope) DataString(key string) string {
	if e.Data == nil {
		return ""
	}
	v, _ := e.Data[key].(string)
	return v
}

// FirstMessage returns the first non-empty candidate, falling back to
// fallback.
func FirstMessage(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return fallback
}
