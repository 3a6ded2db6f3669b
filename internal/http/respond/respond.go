// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/lock"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status that matches its sentinel. Unknown errors become 500
// and their text is logged, not returned.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}

func Status(err error) int {
	switch {
	case errors.Is(err, instrument.ErrNotFound), errors.Is(err, party.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, instrument.ErrInvalidInput), errors.Is(err, party.ErrInvalidInput), errors.Is(err, linkage.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, lock.ErrNotObtained):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
