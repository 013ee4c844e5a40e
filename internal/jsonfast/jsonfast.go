//go:build !stdjson

// Package jsonfast is the ambient JSON decoding stack used by the override
// parser. It defaults to a jsoniter configuration compatible with the
// standard library's encoding/json semantics, with a stdjson build tag to
// fall back to the standard library unchanged.
package jsonfast

import (
	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	Marshal   = api.Marshal
	Unmarshal = api.Unmarshal
	Valid     = api.Valid
)
