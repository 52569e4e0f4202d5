package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/futari/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	UpdateName(ctx context.Context, userID, name string) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// updateNameRequest は表示名変更リクエストのボディ。
type updateNameRequest struct {
	Name string `json:"name"`
}

// UpdateName は表示名を変更する。グループ名も連動して再生成される。
// PATCH /api/users/me/name
func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	user, err := h.service.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
