// Package auth はメールアドレスとパスワードによる認証とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// GroupEnsurer はサインアップ時のペア確定操作のインターフェース。
type GroupEnsurer interface {
	// EnsureGroupFor はユーザーの所属グループを冪等に確定し、グループIDを返す。
	EnsureGroupFor(ctx context.Context, userID string) (string, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	groups      GroupEnsurer
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	groups GroupEnsurer,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		groups:      groups,
		config:      config,
		now:         time.Now,
	}
}

const minPasswordLength = 8

// Signup は新規ユーザーを登録し、グループ所属を確定してセッションを発行する。
// グループ所属の確定に失敗した場合はサインアップ全体を失敗として扱う。
// グループなしのユーザーを作らないためで、同じメールアドレスでの再試行は
// EMAIL_TAKENになるが、再ログインすればLoginの冪等な再確定で所属が確定する。
func (s *Service) Signup(ctx context.Context, email, password, name string) (*model.User, *model.Session, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, model.NewValidationError("email", "メールアドレスの形式が正しくありません")
	}
	if len(password) < minPasswordLength {
		return nil, nil, model.NewValidationError("password", fmt.Sprintf("%d文字以上で設定してください", minPasswordLength))
	}
	if name == "" {
		return nil, nil, model.NewValidationError("name", "表示名を入力してください")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, nil, model.NewEmailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := s.now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	groupID, err := s.groups.EnsureGroupFor(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("サインアップ時のグループ確定に失敗しました: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("新規ユーザーが登録されました",
		slog.String("user_id", user.ID),
		slog.String("group_id", groupID),
	)

	return user, session, nil
}

// Login はメールアドレスとパスワードを検証し、セッションを発行する。
// ユーザー不在とパスワード不一致は区別せずINVALID_CREDENTIALSを返す。
// サインアップがペア確定の手前で失敗した場合に備えて、ログインのたびに
// 所属グループを冪等に再確定する（所属済みなら書き込みは発生しない）。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil, model.NewInvalidCredentialsError()
		}
		return nil, nil, fmt.Errorf("パスワードの検証に失敗しました: %w", err)
	}

	if _, err := s.groups.EnsureGroupFor(ctx, user.ID); err != nil {
		return nil, nil, fmt.Errorf("ログイン時のグループ確定に失敗しました: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("ユーザーがログインしました", slog.String("user_id", user.ID))

	return user, session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("セッションIDが必要です")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	slog.Info("ユーザーがログアウトしました", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
// セッションが無効・期限切れの場合はUNAUTHORIZEDを返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("セッションIDの生成に失敗しました: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗しました: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
