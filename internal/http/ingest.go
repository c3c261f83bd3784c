// Package http provides the JSON API server and handler implementations.
//
// This file implements request body intake. Progress submissions arrive from
// spreadsheet-driven clients that sometimes serialize more than once, sending
// a JSON string whose content is itself JSON; decodeJSON peels those layers,
// up to a small bound, before decoding into the target.
package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes bounds request bodies. Bulk catalog imports are the largest
// legitimate payload.
const maxBodyBytes = 4 << 20

// maxUnwrapDepth bounds how many layers of string encoding get peeled.
const maxUnwrapDepth = 3

// decodeJSON reads and decodes the request body into v, unwrapping nested
// string encoding until the content is no longer a JSON string, a layer fails
// to parse, or maxUnwrapDepth is reached.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("request body too large")
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty body")
	}

	for i := 0; i < maxUnwrapDepth && len(trimmed) > 0 && trimmed[0] == '"'; i++ {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			// Not a well-formed string layer; let the final decode report it.
			break
		}
		trimmed = []byte(strings.TrimSpace(inner))
	}
	if len(trimmed) == 0 {
		return fmt.Errorf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
