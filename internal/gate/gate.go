// internal/gate/gate.go

// Package gate は画面遷移を伴うアクセス制御の判定機。
// 認証・認可の解決状況を入力に取り、「通す / 待たせる / ログインさせる / 逃がす」を決める。
// 未ログインは遷移させず、その場でログインフォームを出す。
// 判定に失敗したときは常に権限の低い側へ倒す。
package gate

import (
	"context"
	"sync"

	"menu_admin/internal/middleware"

	"github.com/google/uuid"
)

// State は判定機の内部状態
type State string

const (
	StateAuthResolving   State = "auth_resolving"   // 認証状態を解決中
	StateUnauthenticated State = "unauthenticated"  // 未ログイン
	StateAuthzResolving  State = "authz_resolving"  // 権限を問い合わせ中
	StateAuthorized      State = "authorized"       // 通過
	StateUnauthorized    State = "unauthorized"     // 権限不足
)

// 遷移先パス
const (
	PathDashboard           = "/dashboard"
	PathSuperAdminDashboard = "/super-admin/dashboard"
)

// Session は呼び出し時点の認証状態のスナップショット
type Session struct {
	AuthLoading   bool
	Authenticated bool
	TenantID      uuid.UUID
}

// Navigation はリダイレクト指示。Replace が真なら履歴を置き換える。
type Navigation struct {
	Path    string
	Replace bool
}

// Decision は判定結果。
// ShowLoading 中は他のフィールドを見ないこと。
// ShowLogin はその場でログインフォームを表示する指示で、遷移は伴わない。
type Decision struct {
	State            State
	Allow            bool
	ShowLoading      bool
	ShowLogin        bool
	ShowAccessDenied bool
	Navigate         *Navigation
}

// Oracle は権限判定の問い合わせ先
type Oracle interface {
	IsSuperAdmin(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

// ProtectedRoute は「ログイン済みであること」だけを要求する判定。
// 同じ Session を何度評価しても結果は変わらない。
func ProtectedRoute(session Session) Decision {
	if session.AuthLoading {
		return Decision{State: StateAuthResolving, ShowLoading: true}
	}
	if !session.Authenticated {
		// 未ログインでも現在地は維持し、ログイン導線として使えるようにする
		return Decision{State: StateUnauthenticated, ShowLogin: true}
	}
	return Decision{State: StateAuthorized, Allow: true}
}

// SuperAdminRoute はスーパー管理者権限を要求する判定
type SuperAdminRoute struct {
	oracle Oracle
}

func NewSuperAdminRoute(oracle Oracle) *SuperAdminRoute {
	return &SuperAdminRoute{oracle: oracle}
}

// Evaluate は権限を都度問い合わせて判定する。
// 問い合わせに失敗した場合は権限なしと同じ扱いにする。
func (r *SuperAdminRoute) Evaluate(ctx context.Context, session Session) Decision {
	logger := middleware.GetLogger(ctx)

	if session.AuthLoading {
		return Decision{State: StateAuthResolving, ShowLoading: true}
	}
	if !session.Authenticated {
		return Decision{State: StateUnauthenticated, ShowLogin: true}
	}

	isSuperAdmin, err := r.oracle.IsSuperAdmin(ctx, session.TenantID)
	if err != nil {
		logger.Error("Super admin check failed, treating as unauthorized",
			"error", err,
			"tenant_id", session.TenantID.String(),
		)
		isSuperAdmin = false
	}
	if !isSuperAdmin {
		return Decision{
			State:            StateUnauthorized,
			ShowAccessDenied: true,
			Navigate:         &Navigation{Path: PathDashboard, Replace: true},
		}
	}
	return Decision{State: StateAuthorized, Allow: true}
}

// RoleBasedRedirect はログイン直後の振り分け。
// 同一の認証状態に対してリダイレクト指示を出すのは1回だけ。
// 認証状態（誰として・ログイン有無）が変わったら再度1回だけ出す。
type RoleBasedRedirect struct {
	oracle Oracle

	mu      sync.Mutex
	lastKey string
	fired   bool
}

func NewRoleBasedRedirect(oracle Oracle) *RoleBasedRedirect {
	return &RoleBasedRedirect{oracle: oracle}
}

func redirectKey(session Session) string {
	if !session.Authenticated {
		return "anonymous"
	}
	return session.TenantID.String()
}

func (r *RoleBasedRedirect) Evaluate(ctx context.Context, session Session) Decision {
	logger := middleware.GetLogger(ctx)

	if session.AuthLoading {
		return Decision{State: StateAuthResolving, ShowLoading: true}
	}

	key := redirectKey(session)
	r.mu.Lock()
	if key != r.lastKey {
		r.lastKey = key
		r.fired = false
	}
	alreadyFired := r.fired
	r.mu.Unlock()

	if !session.Authenticated {
		return Decision{State: StateUnauthenticated, ShowLogin: true}
	}

	if alreadyFired {
		return Decision{State: StateAuthorized, Allow: true}
	}

	isSuperAdmin, err := r.oracle.IsSuperAdmin(ctx, session.TenantID)
	if err != nil {
		logger.Error("Role lookup for redirect failed, falling back to owner dashboard",
			"error", err,
			"tenant_id", session.TenantID.String(),
		)
		isSuperAdmin = false
	}

	r.markFired(key)
	path := PathDashboard
	if isSuperAdmin {
		path = PathSuperAdminDashboard
	}
	return Decision{
		State:    StateAuthorized,
		Allow:    true,
		Navigate: &Navigation{Path: path, Replace: true},
	}
}

func (r *RoleBasedRedirect) markFired(key string) {
	r.mu.Lock()
	if r.lastKey == key {
		r.fired = true
	}
	r.mu.Unlock()
}
