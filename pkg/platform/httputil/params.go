package httputil

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "gesclient/pkg/domain"
)

// PathID parses the {id} route parameter. A malformed value is an
// invalid-input error (400).
func PathID(r *http.Request) (id.ID, error) {
	return id.ParseID(chi.URLParam(r, "id"))
}
