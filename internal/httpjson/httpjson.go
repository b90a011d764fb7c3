// Package httpjson is the one JSON surface of the API: request decoding
// and response/error encoding live here so every handler speaks the
// same dialect.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// リクエストボディの上限 (1 MiB)
const maxBodyBytes = 1 << 20

type errorPayload struct {
	Error string `json:"error"`
}

// Write encodes v as the response body. Encoding errors are ignored;
// the status line has already gone out by then.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Read decodes the request body into dst, rejecting unknown fields and
// bodies over the limit.
func Read(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorPayload{Error: msg})
}
