package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxBodyBytes caps decoded request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// BindJSON decodes a JSON object body into v. A missing Content-Type is
// tolerated; any other media type is rejected. An empty body leaves v at its
// zero value so field validation reports what is missing. Unknown fields are
// ignored.
func BindJSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != "application/json" {
				return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, ct)
			}
		}
		if r.Body == nil || r.Body == http.NoBody {
			return nil
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, DefaultMaxBodyBytes))
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}

		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
		}
		return nil
	}
}
