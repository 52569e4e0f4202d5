package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type mockMetricsRecorder struct {
	statuses  []int
	latencies []time.Duration
}

func (m *mockMetricsRecorder) RecordHTTPStatus(statusCode int) {
	m.statuses = append(m.statuses, statusCode)
}
func (m *mockMetricsRecorder) RecordRequestLatency(d time.Duration) {
	m.latencies = append(m.latencies, d)
}

// TestMetricsMiddleware_RecordsStatusAndLatency はステータスコードとレイテンシが記録されることを検証する。
func TestMetricsMiddleware_RecordsStatusAndLatency(t *testing.T) {
	recorder := &mockMetricsRecorder{}
	mw := NewMetricsMiddleware(recorder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/logs", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusCreated {
		t.Errorf("statuses = %v, want [201]", recorder.statuses)
	}
	if len(recorder.latencies) != 1 {
		t.Errorf("latencies count = %d, want 1", len(recorder.latencies))
	}
}

// TestMetricsMiddleware_DefaultsTo200 はWriteHeader未呼び出し時に200が記録されることを検証する。
func TestMetricsMiddleware_DefaultsTo200(t *testing.T) {
	recorder := &mockMetricsRecorder{}
	mw := NewMetricsMiddleware(recorder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v, want [200]", recorder.statuses)
	}
}
