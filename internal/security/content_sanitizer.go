// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザーが入力した自由記述テキスト
// （ログ本文、ルール本文、メモなど）をサニタイズし、
// XSS攻撃などのセキュリティリスクからパートナーを保護する。
// bluemondayライブラリの厳格ポリシーで全HTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はテキストのサニタイズ機能のインターフェースを定義する。
// ログ・ルール・未来アイテムの保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize はユーザー入力テキストからHTMLタグを全て除去して返す。
	// ふたりのやりとりは平文テキストなので、許可するタグは存在しない。
	// 前後の空白はトリムする。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは全てのタグと属性を除去し、テキストノードのみを残す。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからHTMLタグを除去し、前後の空白をトリムして返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
