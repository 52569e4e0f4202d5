package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/rules"
)

// RulesServiceInterface はルールハンドラーが必要とするサービスインターフェース。
type RulesServiceInterface interface {
	CreateRule(ctx context.Context, userID string, input rules.CreateRuleInput) (*model.Rule, error)
	ListRules(ctx context.Context, userID string) ([]model.Rule, error)
	UpdateRule(ctx context.Context, userID, ruleID string, input rules.UpdateRuleInput) (*model.Rule, error)
	ListChecklist(ctx context.Context, userID string) ([]model.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, userID, itemID string, input rules.UpdateChecklistInput) (*model.ChecklistItem, error)
}

// RulesHandler はルール・チェックリストのHTTPハンドラー。
type RulesHandler struct {
	service RulesServiceInterface
}

// NewRulesHandler はRulesHandlerを生成する。
func NewRulesHandler(service RulesServiceInterface) *RulesHandler {
	return &RulesHandler{service: service}
}

// ruleRequest はルール作成・更新リクエストのボディ。
type ruleRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Memo     string `json:"memo"`
}

// ruleResponse はルールのAPIレスポンス。
type ruleResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Memo      string    `json:"memo,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// checklistRequest はチェック項目更新リクエストのボディ。
type checklistRequest struct {
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	Memo       string `json:"memo"`
}

// checklistResponse はチェック項目のAPIレスポンス。
type checklistResponse struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Question   string    `json:"question"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion,omitempty"`
	Memo       string    `json:"memo,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRule はルールを作成する。
// POST /api/rules
func (h *RulesHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	rule, err := h.service.CreateRule(r.Context(), userID, rules.CreateRuleInput{
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		Memo:     req.Memo,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRuleResponse(rule))
}

// ListRules はグループのルール一覧を返す。
// GET /api/rules
func (h *RulesHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	ruleList, err := h.service.ListRules(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]ruleResponse, 0, len(ruleList))
	for i := range ruleList {
		resp = append(resp, toRuleResponse(&ruleList[i]))
	}
	writeJSON(w, http.StatusOK, map[string][]ruleResponse{"rules": resp})
}

// UpdateRule はルールを更新する。
// PUT /api/rules/{id}
func (h *RulesHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	ruleID := chi.URLParam(r, "id")

	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	rule, err := h.service.UpdateRule(r.Context(), userID, ruleID, rules.UpdateRuleInput{
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		Memo:     req.Memo,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRuleResponse(rule))
}

// ListChecklist は同棲チェックリストを返す。
// GET /api/checklist
func (h *RulesHandler) ListChecklist(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListChecklist(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]checklistResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toChecklistResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, map[string][]checklistResponse{"items": resp})
}

// UpdateChecklistItem はチェック項目の状態・結論を更新する。
// PUT /api/checklist/{id}
func (h *RulesHandler) UpdateChecklistItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "id")

	var req checklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	item, err := h.service.UpdateChecklistItem(r.Context(), userID, itemID, rules.UpdateChecklistInput{
		Status:     req.Status,
		Conclusion: req.Conclusion,
		Memo:       req.Memo,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistResponse(item))
}

// toRuleResponse はmodel.RuleからAPIレスポンスに変換する。
func toRuleResponse(rule *model.Rule) ruleResponse {
	return ruleResponse{
		ID:        rule.ID,
		Category:  string(rule.Category),
		Title:     rule.Title,
		Content:   rule.Content,
		Memo:      rule.Memo,
		CreatedBy: rule.CreatedBy,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}

// toChecklistResponse はmodel.ChecklistItemからAPIレスポンスに変換する。
func toChecklistResponse(item *model.ChecklistItem) checklistResponse {
	return checklistResponse{
		ID:         item.ID,
		Category:   item.Category,
		Question:   item.Question,
		Status:     string(item.Status),
		Conclusion: item.Conclusion,
		Memo:       item.Memo,
		UpdatedAt:  item.UpdatedAt,
	}
}
