package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	errs "goban_rules/internal/errors"
)

const maxBodyBytes = 1 << 20

// DecodeJSONRequest decodes the request body into dst, refusing unknown
// fields. Failures wrap ErrInvalidArgument.
func DecodeJSONRequest(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read request body: %v", errs.ErrInvalidArgument, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errs.ErrInvalidArgument, err)
	}
	return nil
}
