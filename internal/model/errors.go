// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, group, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeGroupCreationFailed    = "GROUP_CREATION_FAILED"
	ErrCodeGroupNotFound          = "GROUP_NOT_FOUND"
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeInvalidDomain          = "INVALID_DOMAIN"
	ErrCodeLogNotFound            = "LOG_NOT_FOUND"
	ErrCodeRuleNotFound           = "RULE_NOT_FOUND"
	ErrCodeChecklistItemNotFound  = "CHECKLIST_ITEM_NOT_FOUND"
	ErrCodeFutureItemNotFound     = "FUTURE_ITEM_NOT_FOUND"
	ErrCodeUserNotFound           = "USER_NOT_FOUND"
	ErrCodeEmailTaken             = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
)

// NewGroupCreationFailedError はグループ作成・参加失敗エラーを生成する。
// ペアリングが完了しないとダッシュボードに進めないため、呼び出し元に伝播させる。
func NewGroupCreationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeGroupCreationFailed,
		Message:  "グループの作成または参加に失敗しました。",
		Category: "group",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewGroupNotFoundError はグループ未所属エラーを生成する。
func NewGroupNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeGroupNotFound,
		Message:  "所属するグループが見つかりません。",
		Category: "group",
		Action:   "ログインし直してください。",
	}
}

// NewValidationError は入力値の検証エラーを生成する。
// fieldには対象フィールド名、reasonには不正の理由を指定する。
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("%s: %s", field, reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidDomainError は未知のdomain指定エラーを生成する。
func NewInvalidDomainError(domain string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDomain,
		Message:  fmt.Sprintf("無効な画面種別です: %s", domain),
		Category: "validation",
		Action:   "dashboard、state、logs、rules、future のいずれかを指定してください。",
	}
}

// NewLogNotFoundError はログ未検出エラーを生成する。
func NewLogNotFoundError(logID string) *APIError {
	return &APIError{
		Code:     ErrCodeLogNotFound,
		Message:  fmt.Sprintf("指定されたログが見つかりません: %s", logID),
		Category: "validation",
		Action:   "ログIDを確認してください。",
	}
}

// NewRuleNotFoundError はルール未検出エラーを生成する。
func NewRuleNotFoundError(ruleID string) *APIError {
	return &APIError{
		Code:     ErrCodeRuleNotFound,
		Message:  fmt.Sprintf("指定されたルールが見つかりません: %s", ruleID),
		Category: "validation",
		Action:   "ルールIDを確認してください。",
	}
}

// NewChecklistItemNotFoundError はチェック項目未検出エラーを生成する。
func NewChecklistItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeChecklistItemNotFound,
		Message:  fmt.Sprintf("指定されたチェック項目が見つかりません: %s", itemID),
		Category: "validation",
		Action:   "チェック項目IDを確認してください。",
	}
}

// NewFutureItemNotFoundError は未来アイテム未検出エラーを生成する。
func NewFutureItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeFutureItemNotFound,
		Message:  fmt.Sprintf("指定されたアイテムが見つかりません: %s", itemID),
		Category: "validation",
		Action:   "アイテムIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}
