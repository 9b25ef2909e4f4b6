// Package handlers implements the HTTP surface. Each handler decodes and
// validates the request, delegates to the application service, and maps
// the outcome onto the wire.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "meetsync/pkg/errors"
	"meetsync/pkg/utils"
)

// decodeJSON decodes the request body into dst and runs struct validation
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return pkgerrors.NewValidationError("invalid request body")
	}
	if err := utils.ValidateStruct(dst); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// pathID parses the named URL parameter as an entity identifier
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.NewValidationError(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}
