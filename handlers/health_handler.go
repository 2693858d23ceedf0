package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"medicare/db"
)

type HealthHandler struct {
	DB     db.DB
	DBName string
	Start  time.Time
}

// Health reports database connectivity: 200 when reachable, 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	status := "OK"
	code := http.StatusOK
	if err := h.DB.Ping(ctx); err != nil {
		dbStatus = "disconnected"
		status = "ERROR"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database": map[string]string{
			"status": dbStatus,
			"name":   h.DBName,
		},
	})
}

// Metrics reports process uptime and memory usage.
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds": time.Since(h.Start).Seconds(),
		"memory": map[string]uint64{
			"alloc":        m.Alloc,
			"total_alloc":  m.TotalAlloc,
			"sys":          m.Sys,
			"heap_objects": m.HeapObjects,
		},
		"goroutines": runtime.NumGoroutine(),
		"cpus":       runtime.NumCPU(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
