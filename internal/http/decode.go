package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
)

var (
	errInvalidBody  = domain.NewValidation("Invalid JSON body")
	errBodyTooLarge = domain.NewValidation("Request body too large")
)

// decodeBody reads a JSON object into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errInvalidBody
	}
}
