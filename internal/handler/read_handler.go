package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/read"
)

// ReadServiceInterface は閲覧記録ハンドラーが必要とするサービスインターフェース。
type ReadServiceInterface interface {
	RecordView(ctx context.Context, userID string, domain string) error
	GetMyReads(ctx context.Context, userID string) (map[model.Domain]time.Time, error)
	GetPartnerReads(ctx context.Context, userID string) (map[model.Domain]time.Time, error)
}

// BadgeServiceInterface は新着バッジハンドラーが必要とするサービスインターフェース。
type BadgeServiceInterface interface {
	GetBadges(ctx context.Context, userID string) (read.NewBadges, error)
}

// ReadHandler は閲覧記録と新着バッジのHTTPハンドラー。
type ReadHandler struct {
	reads  ReadServiceInterface
	badges BadgeServiceInterface
	now    func() time.Time
}

// NewReadHandler はReadHandlerを生成する。
func NewReadHandler(reads ReadServiceInterface, badges BadgeServiceInterface) *ReadHandler {
	return &ReadHandler{
		reads:  reads,
		badges: badges,
		now:    time.Now,
	}
}

// readEntry は閲覧記録1件のAPIレスポンス。
// recencyは「たった今」「5分前」のような相対表記。
type readEntry struct {
	Domain  string    `json:"domain"`
	SeenAt  time.Time `json:"seen_at"`
	Recency string    `json:"recency"`
}

// RecordView は画面の閲覧を記録する。
// 記録の失敗で画面表示を妨げないため、保存エラーは成功として扱う。
// POST /api/reads/{domain}
func (h *ReadHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	domain := chi.URLParam(r, "domain")

	if err := h.reads.RecordView(r.Context(), userID, domain); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMyReads は自分の閲覧記録一覧を返す。
// GET /api/reads
func (h *ReadHandler) GetMyReads(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reads, err := h.reads.GetMyReads(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]readEntry{"reads": h.toReadEntries(reads)})
}

// GetPartnerReads はパートナーの閲覧記録一覧を返す。
// 「相手がいつ見たか」の表示に使う。パートナー待ちの間は空になる。
// GET /api/reads/partner
func (h *ReadHandler) GetPartnerReads(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reads, err := h.reads.GetPartnerReads(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]readEntry{"reads": h.toReadEntries(reads)})
}

// GetBadges はdomainごとの新着バッジを返す。
// GET /api/badges
func (h *ReadHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	badges, err := h.badges.GetBadges(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, badges)
}

// toReadEntries は閲覧記録マップを表示順のレスポンスに変換する。
func (h *ReadHandler) toReadEntries(reads map[model.Domain]time.Time) []readEntry {
	now := h.now()
	entries := make([]readEntry, 0, len(reads))
	for _, d := range model.Domains {
		seenAt, ok := reads[d]
		if !ok {
			continue
		}
		entries = append(entries, readEntry{
			Domain:  string(d),
			SeenAt:  seenAt,
			Recency: read.FormatRecency(seenAt, now),
		})
	}
	return entries
}
