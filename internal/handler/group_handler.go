package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/futari/internal/group"
	"github.com/hitoshi/futari/internal/model"
)

// GroupServiceInterface はグループハンドラーが必要とするサービスインターフェース。
type GroupServiceInterface interface {
	GetGroup(ctx context.Context, userID string) (*group.GroupInfo, error)
	GetPartner(ctx context.Context, userID string) (*model.User, error)
}

// GroupHandler はグループ情報のHTTPハンドラー。
type GroupHandler struct {
	service GroupServiceInterface
}

// NewGroupHandler はGroupHandlerを生成する。
func NewGroupHandler(service GroupServiceInterface) *GroupHandler {
	return &GroupHandler{service: service}
}

// groupResponse はグループ情報のAPIレスポンス。
type groupResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Waiting bool             `json:"waiting"`
	Members []memberResponse `json:"members"`
}

// memberResponse はグループメンバーのAPIレスポンス。
type memberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// partnerResponse はパートナー情報のAPIレスポンス。
// パートナー待ちの間はpartnerがnullになる。
type partnerResponse struct {
	Partner *memberResponse `json:"partner"`
}

// GetGroup は所属グループの情報を返す。
// GET /api/group
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	info, err := h.service.GetGroup(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	members := make([]memberResponse, 0, len(info.Members))
	for _, m := range info.Members {
		members = append(members, memberResponse{ID: m.ID, Name: m.Name})
	}

	writeJSON(w, http.StatusOK, groupResponse{
		ID:      info.ID,
		Name:    info.Name,
		Waiting: info.Waiting,
		Members: members,
	})
}

// GetPartner はパートナーの情報を返す。パートナー待ちの間はnullを返す。
// GET /api/group/partner
func (h *GroupHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	partner, err := h.service.GetPartner(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := partnerResponse{}
	if partner != nil {
		resp.Partner = &memberResponse{ID: partner.ID, Name: partner.Name}
	}
	writeJSON(w, http.StatusOK, resp)
}
