package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/futari/internal/middleware"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/read"
)

// --- モック ---

type mockReadService struct {
	recordViewFn      func(ctx context.Context, userID, domain string) error
	getMyReadsFn      func(ctx context.Context, userID string) (map[model.Domain]time.Time, error)
	getPartnerReadsFn func(ctx context.Context, userID string) (map[model.Domain]time.Time, error)
}

func (m *mockReadService) RecordView(ctx context.Context, userID, domain string) error {
	if m.recordViewFn != nil {
		return m.recordViewFn(ctx, userID, domain)
	}
	return nil
}
func (m *mockReadService) GetMyReads(ctx context.Context, userID string) (map[model.Domain]time.Time, error) {
	if m.getMyReadsFn != nil {
		return m.getMyReadsFn(ctx, userID)
	}
	return map[model.Domain]time.Time{}, nil
}
func (m *mockReadService) GetPartnerReads(ctx context.Context, userID string) (map[model.Domain]time.Time, error) {
	if m.getPartnerReadsFn != nil {
		return m.getPartnerReadsFn(ctx, userID)
	}
	return map[model.Domain]time.Time{}, nil
}

type mockBadgeService struct {
	getBadgesFn func(ctx context.Context, userID string) (read.NewBadges, error)
}

func (m *mockBadgeService) GetBadges(ctx context.Context, userID string) (read.NewBadges, error) {
	if m.getBadgesFn != nil {
		return m.getBadgesFn(ctx, userID)
	}
	return read.NewBadges{}, nil
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.ContextWithUserID(req.Context(), "u-1"))
}

// --- テスト ---

// TestRecordView_Returns204 は閲覧記録の成功で204が返ることを検証する。
func TestRecordView_Returns204(t *testing.T) {
	var gotDomain string
	reads := &mockReadService{
		recordViewFn: func(ctx context.Context, userID, domain string) error {
			gotDomain = domain
			return nil
		},
	}
	h := NewReadHandler(reads, &mockBadgeService{})

	r := chi.NewRouter()
	r.Post("/api/reads/{domain}", h.RecordView)

	req := authedRequest(http.MethodPost, "/api/reads/dashboard")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if gotDomain != "dashboard" {
		t.Errorf("domain = %q, want dashboard", gotDomain)
	}
}

// TestRecordView_InvalidDomain_Returns400 は未知のdomainで400が返ることを検証する。
func TestRecordView_InvalidDomain_Returns400(t *testing.T) {
	reads := &mockReadService{
		recordViewFn: func(ctx context.Context, userID, domain string) error {
			return model.NewInvalidDomainError(domain)
		},
	}
	h := NewReadHandler(reads, &mockBadgeService{})

	r := chi.NewRouter()
	r.Post("/api/reads/{domain}", h.RecordView)

	req := authedRequest(http.MethodPost, "/api/reads/unknown")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// TestRecordView_NoAuth_Returns401 は未認証で401が返ることを検証する。
func TestRecordView_NoAuth_Returns401(t *testing.T) {
	h := NewReadHandler(&mockReadService{}, &mockBadgeService{})

	r := chi.NewRouter()
	r.Post("/api/reads/{domain}", h.RecordView)

	req := httptest.NewRequest(http.MethodPost, "/api/reads/dashboard", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// TestGetPartnerReads_IncludesRecency は相対表記付きの閲覧記録が返ることを検証する。
func TestGetPartnerReads_IncludesRecency(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	reads := &mockReadService{
		getPartnerReadsFn: func(ctx context.Context, userID string) (map[model.Domain]time.Time, error) {
			return map[model.Domain]time.Time{
				model.DomainDashboard: now.Add(-5 * time.Minute),
				model.DomainLogs:      now.Add(-2 * time.Hour),
			}, nil
		},
	}
	h := NewReadHandler(reads, &mockBadgeService{})
	h.now = func() time.Time { return now }

	req := authedRequest(http.MethodGet, "/api/reads/partner")
	w := httptest.NewRecorder()

	h.GetPartnerReads(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var body struct {
		Reads []struct {
			Domain  string `json:"domain"`
			Recency string `json:"recency"`
		} `json:"reads"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(body.Reads) != 2 {
		t.Fatalf("len(reads) = %d, want 2", len(body.Reads))
	}
	// 表示順はdashboardが先
	if body.Reads[0].Domain != "dashboard" || body.Reads[0].Recency != "5分前" {
		t.Errorf("reads[0] = %+v, want dashboard/5分前", body.Reads[0])
	}
	if body.Reads[1].Domain != "logs" || body.Reads[1].Recency != "2時間前" {
		t.Errorf("reads[1] = %+v, want logs/2時間前", body.Reads[1])
	}
}

// TestGetBadges_ReturnsBadgeJSON は新着バッジのJSONが返ることを検証する。
func TestGetBadges_ReturnsBadgeJSON(t *testing.T) {
	badges := &mockBadgeService{
		getBadgesFn: func(ctx context.Context, userID string) (read.NewBadges, error) {
			return read.NewBadges{State: true, Logs: false, Rules: true, Future: false}, nil
		},
	}
	h := NewReadHandler(&mockReadService{}, badges)

	req := authedRequest(http.MethodGet, "/api/badges")
	w := httptest.NewRecorder()

	h.GetBadges(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var body read.NewBadges
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.State || body.Logs || !body.Rules || body.Future {
		t.Errorf("badges = %+v, want state/rules true", body)
	}
}
