//go:build stdjson

package jsonfast

import "encoding/json"

var (
	Marshal   = json.Marshal
	Unmarshal = json.Unmarshal
	Valid     = json.Valid
)
