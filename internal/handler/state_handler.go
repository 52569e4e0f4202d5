package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/futari/internal/model"
)

// StateServiceInterface は状態ハンドラーが必要とするサービスインターフェース。
type StateServiceInterface interface {
	UpdateMyState(ctx context.Context, userID string, patch model.StateData) (*model.UserState, error)
	GetMyState(ctx context.Context, userID string) (*model.UserState, error)
	GetPartnerState(ctx context.Context, userID string) (*model.UserState, error)
}

// StateHandler はユーザー状態のHTTPハンドラー。
type StateHandler struct {
	service StateServiceInterface
}

// NewStateHandler はStateHandlerを生成する。
func NewStateHandler(service StateServiceInterface) *StateHandler {
	return &StateHandler{service: service}
}

// stateResponse はユーザー状態のAPIレスポンス。
type stateResponse struct {
	UserID    string          `json:"user_id"`
	Data      model.StateData `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpdateMyState は自分の状態を部分更新する。
// PUT /api/state
func (h *StateHandler) UpdateMyState(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var patch model.StateData
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	state, err := h.service.UpdateMyState(r.Context(), userID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(state))
}

// GetMyState は自分の現在状態を返す。未設定の場合はnullを返す。
// GET /api/state
func (h *StateHandler) GetMyState(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetMyState(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeOptionalState(w, state)
}

// GetPartnerState はパートナーの現在状態を返す。
// パートナー待ち、または未設定の場合はnullを返す。
// GET /api/state/partner
func (h *StateHandler) GetPartnerState(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetPartnerState(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeOptionalState(w, state)
}

// writeOptionalState は状態レスポンスを書き込む。未設定はstate: nullで表現する。
func writeOptionalState(w http.ResponseWriter, state *model.UserState) {
	var body struct {
		State *stateResponse `json:"state"`
	}
	if state != nil {
		resp := toStateResponse(state)
		body.State = &resp
	}
	writeJSON(w, http.StatusOK, body)
}

// toStateResponse はmodel.UserStateからAPIレスポンスに変換する。
func toStateResponse(state *model.UserState) stateResponse {
	return stateResponse{
		UserID:    state.UserID,
		Data:      state.Data,
		UpdatedAt: state.UpdatedAt,
	}
}
