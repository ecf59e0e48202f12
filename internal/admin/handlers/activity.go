package handlers

import (
	"net/http"
	"strconv"

	"github.com/pysugar/gato-admin/internal/admin/monitor"
)

// ActivityHandler returns recent mutating requests, newest first
func ActivityHandler(am *monitor.ActivityMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := monitor.MaxMemoryLogs
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
				limit = l
			}
		}

		logs := am.Recent(limit)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"logs":  logs,
			"count": len(logs),
		})
	}
}

// ActivityStatsHandler returns aggregated request statistics
func ActivityStatsHandler(am *monitor.ActivityMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, am.Stats())
	}
}

// ClearActivityHandler clears all activity logs
func ClearActivityHandler(am *monitor.ActivityMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := am.Clear(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to clear logs: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
