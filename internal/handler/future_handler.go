package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/futari/internal/future"
	"github.com/hitoshi/futari/internal/model"
)

// FutureServiceInterface は未来アイテムハンドラーが必要とするサービスインターフェース。
type FutureServiceInterface interface {
	CreateItem(ctx context.Context, userID string, input future.CreateItemInput) (*model.FutureItem, error)
	ListItems(ctx context.Context, userID string) ([]model.FutureItem, error)
	UpdateItem(ctx context.Context, userID, itemID string, input future.UpdateItemInput) (*model.FutureItem, error)
	DeleteItem(ctx context.Context, userID, itemID string) error
}

// FutureHandler は未来アイテムのHTTPハンドラー。
type FutureHandler struct {
	service FutureServiceInterface
}

// NewFutureHandler はFutureHandlerを生成する。
func NewFutureHandler(service FutureServiceInterface) *FutureHandler {
	return &FutureHandler{service: service}
}

// futureItemRequest は未来アイテム作成・更新リクエストのボディ。
type futureItemRequest struct {
	ItemType          string     `json:"item_type"`
	Title             string     `json:"title"`
	Detail            string     `json:"detail"`
	Temperature       string     `json:"temperature"`
	SurpriseProtected bool       `json:"surprise_protected"`
	AnniversaryDate   *time.Time `json:"anniversary_date"`
	AnniversaryWeight string     `json:"anniversary_weight"`
	PreDiscussion     *bool      `json:"pre_discussion"`
	Owned             *bool      `json:"owned"`
	Reason            string     `json:"reason"`
}

// futureItemResponse は未来アイテムのAPIレスポンス。
type futureItemResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	ItemType          string     `json:"item_type"`
	Title             string     `json:"title"`
	Detail            string     `json:"detail,omitempty"`
	Temperature       string     `json:"temperature"`
	SurpriseProtected bool       `json:"surprise_protected"`
	AnniversaryDate   *time.Time `json:"anniversary_date,omitempty"`
	AnniversaryWeight string     `json:"anniversary_weight,omitempty"`
	PreDiscussion     *bool      `json:"pre_discussion,omitempty"`
	Owned             *bool      `json:"owned,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateItem は未来アイテムを作成する。
// POST /api/future
func (h *FutureHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req futureItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	item, err := h.service.CreateItem(r.Context(), userID, future.CreateItemInput{
		ItemType:          req.ItemType,
		Title:             req.Title,
		Detail:            req.Detail,
		Temperature:       req.Temperature,
		SurpriseProtected: req.SurpriseProtected,
		AnniversaryDate:   req.AnniversaryDate,
		AnniversaryWeight: req.AnniversaryWeight,
		PreDiscussion:     req.PreDiscussion,
		Reason:            req.Reason,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFutureItemResponse(item))
}

// ListItems はグループの未来アイテム一覧を返す。
// 他人のサプライズ保護アイテムは含まれない。
// GET /api/future
func (h *FutureHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListItems(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]futureItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toFutureItemResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, map[string][]futureItemResponse{"items": resp})
}

// UpdateItem は未来アイテムを更新する。提案者本人のみ。
// PUT /api/future/{id}
func (h *FutureHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "id")

	var req futureItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), userID, itemID, future.UpdateItemInput{
		Title:             req.Title,
		Detail:            req.Detail,
		Temperature:       req.Temperature,
		SurpriseProtected: req.SurpriseProtected,
		AnniversaryDate:   req.AnniversaryDate,
		AnniversaryWeight: req.AnniversaryWeight,
		PreDiscussion:     req.PreDiscussion,
		Owned:             req.Owned,
		Reason:            req.Reason,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFutureItemResponse(item))
}

// DeleteItem は未来アイテムを削除する。提案者本人のみ。
// DELETE /api/future/{id}
func (h *FutureHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), userID, itemID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toFutureItemResponse はmodel.FutureItemからAPIレスポンスに変換する。
func toFutureItemResponse(item *model.FutureItem) futureItemResponse {
	return futureItemResponse{
		ID:                item.ID,
		UserID:            item.UserID,
		ItemType:          string(item.ItemType),
		Title:             item.Title,
		Detail:            item.Detail,
		Temperature:       string(item.Temperature),
		SurpriseProtected: item.SurpriseProtected,
		AnniversaryDate:   item.AnniversaryDate,
		AnniversaryWeight: string(item.AnniversaryWeight),
		PreDiscussion:     item.PreDiscussion,
		Owned:             item.Owned,
		Reason:            item.Reason,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
