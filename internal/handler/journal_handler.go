package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/futari/internal/journal"
	"github.com/hitoshi/futari/internal/model"
)

// JournalServiceInterface はログハンドラーが必要とするサービスインターフェース。
type JournalServiceInterface interface {
	CreateLog(ctx context.Context, userID string, input journal.CreateLogInput) (*model.Log, error)
	ListLogs(ctx context.Context, userID string) ([]model.Log, error)
	UpdateVisibility(ctx context.Context, userID, logID string, visibility string) (*model.Log, error)
}

// JournalHandler は日々のログのHTTPハンドラー。
type JournalHandler struct {
	service JournalServiceInterface
}

// NewJournalHandler はJournalHandlerを生成する。
func NewJournalHandler(service JournalServiceInterface) *JournalHandler {
	return &JournalHandler{service: service}
}

// createLogRequest はログ作成リクエストのボディ。
type createLogRequest struct {
	LogType           string     `json:"log_type"`
	Content           string     `json:"content"`
	Visibility        string     `json:"visibility"`
	ExpiresAt         *time.Time `json:"expires_at"`
	ChoreType         string     `json:"chore_type"`
	SatisfactionScore *int       `json:"satisfaction_score"`
}

// updateVisibilityRequest は公開範囲変更リクエストのボディ。
type updateVisibilityRequest struct {
	Visibility string `json:"visibility"`
}

// logResponse はログのAPIレスポンス。
type logResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	LogType           string     `json:"log_type"`
	Content           string     `json:"content"`
	Visibility        string     `json:"visibility"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	ChoreType         string     `json:"chore_type,omitempty"`
	SatisfactionScore *int       `json:"satisfaction_score,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreateLog はログを作成する。
// POST /api/logs
func (h *JournalHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	log, err := h.service.CreateLog(r.Context(), userID, journal.CreateLogInput{
		LogType:           req.LogType,
		Content:           req.Content,
		Visibility:        req.Visibility,
		ExpiresAt:         req.ExpiresAt,
		ChoreType:         req.ChoreType,
		SatisfactionScore: req.SatisfactionScore,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLogResponse(log))
}

// ListLogs はグループのログ一覧を返す。他人の非公開ログは含まれない。
// GET /api/logs
func (h *JournalHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	logs, err := h.service.ListLogs(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]logResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, toLogResponse(&logs[i]))
	}
	writeJSON(w, http.StatusOK, map[string][]logResponse{"logs": resp})
}

// UpdateVisibility はログの公開範囲を変更する。
// PATCH /api/logs/{id}/visibility
func (h *JournalHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	logID := chi.URLParam(r, "id")

	var req updateVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	log, err := h.service.UpdateVisibility(r.Context(), userID, logID, req.Visibility)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLogResponse(log))
}

// toLogResponse はmodel.LogからAPIレスポンスに変換する。
func toLogResponse(log *model.Log) logResponse {
	return logResponse{
		ID:                log.ID,
		UserID:            log.UserID,
		LogType:           string(log.LogType),
		Content:           log.Content,
		Visibility:        string(log.Visibility),
		ExpiresAt:         log.ExpiresAt,
		ChoreType:         log.ChoreType,
		SatisfactionScore: log.SatisfactionScore,
		CreatedAt:         log.CreatedAt,
	}
}
