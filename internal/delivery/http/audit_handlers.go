package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ListAuthEvents returns the recent authentication audit trail, newest first.
// Supports ?limit=, ?offset= and ?user_id=.
func (h *Handler) ListAuthEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid user_id filter")
			return
		}
		events, err := h.eventRepo.ListByUser(userID, limit, offset)
		if err != nil {
			h.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": events})
		return
	}

	events, total, err := h.eventRepo.ListRecent(limit, offset)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "total": total})
}

// AuthEventStats aggregates event counts by kind over the last ?hours=
// (default 24), a quick read on replay incidents.
func (h *Handler) AuthEventStats(w http.ResponseWriter, r *http.Request) {
	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	if hours <= 0 {
		hours = 24
	}

	counts, err := h.eventRepo.CountByKind(time.Now().Add(-time.Duration(hours) * time.Hour))
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"since_hours": hours, "counts": counts})
}
