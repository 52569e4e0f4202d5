package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/futari/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	MetricsRecorder   middleware.HTTPMetricsRecorder
	MetricsHandler    http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// グループ・ユーザー
	GroupService GroupServiceInterface
	UserService  UserServiceInterface

	// 状態
	StateService StateServiceInterface

	// ログ
	JournalService JournalServiceInterface

	// ルール・チェックリスト
	RulesService RulesServiceInterface

	// 未来アイテム
	FutureService FutureServiceInterface

	// 閲覧記録・新着バッジ
	ReadService  ReadServiceInterface
	BadgeService BadgeServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Session → CSRF → RateLimit(General)
//
// 認証ルート（/auth/*）、ヘルスチェック、メトリクスはセッションチェックの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	groupHandler := NewGroupHandler(deps.GroupService)
	userHandler := NewUserHandler(deps.UserService)
	stateHandler := NewStateHandler(deps.StateService)
	journalHandler := NewJournalHandler(deps.JournalService)
	rulesHandler := NewRulesHandler(deps.RulesService)
	futureHandler := NewFutureHandler(deps.FutureService)
	readHandler := NewReadHandler(deps.ReadService, deps.BadgeService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		writeLimit := deps.RateLimiter.WriteMiddleware()

		// グループ
		r.Route("/api/group", func(r chi.Router) {
			r.Get("/", groupHandler.GetGroup)
			r.Get("/partner", groupHandler.GetPartner)
		})

		// ユーザー
		r.With(writeLimit).Patch("/api/users/me/name", userHandler.UpdateName)

		// 状態
		r.Route("/api/state", func(r chi.Router) {
			r.Get("/", stateHandler.GetMyState)
			r.With(writeLimit).Put("/", stateHandler.UpdateMyState)
			r.Get("/partner", stateHandler.GetPartnerState)
		})

		// ログ
		r.Route("/api/logs", func(r chi.Router) {
			r.Get("/", journalHandler.ListLogs)
			r.With(writeLimit).Post("/", journalHandler.CreateLog)
			r.With(writeLimit).Patch("/{id}/visibility", journalHandler.UpdateVisibility)
		})

		// ルール・チェックリスト
		r.Route("/api/rules", func(r chi.Router) {
			r.Get("/", rulesHandler.ListRules)
			r.With(writeLimit).Post("/", rulesHandler.CreateRule)
			r.With(writeLimit).Put("/{id}", rulesHandler.UpdateRule)
		})
		r.Route("/api/checklist", func(r chi.Router) {
			r.Get("/", rulesHandler.ListChecklist)
			r.With(writeLimit).Put("/{id}", rulesHandler.UpdateChecklistItem)
		})

		// 未来アイテム
		r.Route("/api/future", func(r chi.Router) {
			r.Get("/", futureHandler.ListItems)
			r.With(writeLimit).Post("/", futureHandler.CreateItem)
			r.With(writeLimit).Put("/{id}", futureHandler.UpdateItem)
			r.With(writeLimit).Delete("/{id}", futureHandler.DeleteItem)
		})

		// 閲覧記録・新着バッジ
		r.Route("/api/reads", func(r chi.Router) {
			r.Get("/", readHandler.GetMyReads)
			r.Get("/partner", readHandler.GetPartnerReads)
			r.Post("/{domain}", readHandler.RecordView)
		})
		r.Get("/api/badges", readHandler.GetBadges)
	})

	return r
}
