// Package monitor records mutating admin API requests for the activity view.
package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/logging"
	"github.com/pysugar/gato-admin/internal/util"
	"gorm.io/gorm"
)

const (
	// MaxMemoryLogs limits the in-memory ring of recent entries
	MaxMemoryLogs = 100
)

// ActivityMonitor keeps recent mutations in memory and persists them asynchronously.
type ActivityMonitor struct {
	db *gorm.DB

	recentLogs []models.RequestLog
	logsMu     sync.RWMutex

	totalRequests atomic.Int64
	successCount  atomic.Int64
	errorCount    atomic.Int64

	pending sync.WaitGroup
}

// NewActivityMonitor creates a monitor backed by db. The request_logs table must exist.
func NewActivityMonitor(db *gorm.DB) *ActivityMonitor {
	am := &ActivityMonitor{
		db:         db,
		recentLogs: make([]models.RequestLog, 0, MaxMemoryLogs),
	}
	am.loadStatsFromDB()
	return am
}

// Record stores one entry (async, non-blocking for the DB write)
func (am *ActivityMonitor) Record(entry models.RequestLog) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	entry.Error = util.Truncate(entry.Error, util.DefaultMaxLen)

	am.totalRequests.Add(1)
	if entry.Status >= 200 && entry.Status < 400 {
		am.successCount.Add(1)
	} else {
		am.errorCount.Add(1)
	}

	am.logsMu.Lock()
	am.recentLogs = append([]models.RequestLog{entry}, am.recentLogs...)
	if len(am.recentLogs) > MaxMemoryLogs {
		am.recentLogs = am.recentLogs[:MaxMemoryLogs]
	}
	am.logsMu.Unlock()

	am.pending.Add(1)
	go func(e models.RequestLog) {
		defer am.pending.Done()
		if err := am.db.Create(&e).Error; err != nil {
			log.Printf("[Monitor] Failed to save log: %v", err)
		}
	}(entry)
}

// Wait blocks until every pending DB write has finished.
func (am *ActivityMonitor) Wait() {
	am.pending.Wait()
}

// Recent returns up to limit entries, newest first. The database is authoritative;
// the in-memory ring is used when it cannot be read.
func (am *ActivityMonitor) Recent(limit int) []models.RequestLog {
	if limit <= 0 || limit > MaxMemoryLogs {
		limit = MaxMemoryLogs
	}

	var logs []models.RequestLog
	if err := am.db.Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		log.Printf("[Monitor] Failed to get logs from DB: %v", err)
		am.logsMu.RLock()
		defer am.logsMu.RUnlock()
		if limit > len(am.recentLogs) {
			limit = len(am.recentLogs)
		}
		out := make([]models.RequestLog, limit)
		copy(out, am.recentLogs[:limit])
		return out
	}
	return logs
}

// Stats returns aggregated totals since the table was created.
func (am *ActivityMonitor) Stats() models.RequestStats {
	return models.RequestStats{
		TotalRequests: am.totalRequests.Load(),
		SuccessCount:  am.successCount.Load(),
		ErrorCount:    am.errorCount.Load(),
	}
}

// Clear drops all entries from memory and the database.
func (am *ActivityMonitor) Clear() error {
	am.pending.Wait()

	am.logsMu.Lock()
	am.recentLogs = am.recentLogs[:0]
	am.logsMu.Unlock()

	am.totalRequests.Store(0)
	am.successCount.Store(0)
	am.errorCount.Store(0)

	if err := am.db.Where("1 = 1").Delete(&models.RequestLog{}).Error; err != nil {
		log.Printf("[Monitor] Failed to clear logs: %v", err)
		return err
	}
	log.Printf("[Monitor] All logs cleared")
	return nil
}

func (am *ActivityMonitor) loadStatsFromDB() {
	var total, success, failed int64

	am.db.Model(&models.RequestLog{}).Count(&total)
	am.db.Model(&models.RequestLog{}).Where("status >= 200 AND status < 400").Count(&success)
	am.db.Model(&models.RequestLog{}).Where("status < 200 OR status >= 400").Count(&failed)

	am.totalRequests.Store(total)
	am.successCount.Store(success)
	am.errorCount.Store(failed)

	log.Printf("[Monitor] Loaded stats: total=%d, success=%d, errors=%d", total, success, failed)
}

// subject is filled in by handlers while the request runs.
type subject struct {
	mu       sync.Mutex
	recordID uint
	alias    string
	err      string
}

type subjectKey struct{}

// Annotate attaches the affected record and any failure to the request being recorded.
// It is a no-op outside Middleware.
func Annotate(ctx context.Context, recordID uint, alias string, err error) {
	s, ok := ctx.Value(subjectKey{}).(*subject)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if recordID != 0 {
		s.recordID = recordID
	}
	if alias != "" {
		s.alias = alias
	}
	if err != nil {
		s.err = err.Error()
	}
}

// Middleware records every non-GET request passing through it.
func (am *ActivityMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		s := &subject{}
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), subjectKey{}, s)))

		s.mu.Lock()
		entry := models.RequestLog{
			RequestID: logging.GetRequestID(r.Context()),
			Method:    r.Method,
			URL:       r.URL.Path,
			Status:    sw.status,
			Duration:  time.Since(start).Milliseconds(),
			RecordID:  s.recordID,
			Alias:     s.alias,
			Error:     s.err,
		}
		s.mu.Unlock()
		am.Record(entry)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
