// Package guard はページ遷移前にセッションとロールでアクセスを振り分ける。
package guard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/eduportal/internal/session"
)

// 振り分け先のパス
const (
	LoginPath         = "/login"
	RoleSelectionPath = "/role-selection"
	DashboardPath     = "/dashboard"
)

// PathClass はガード対象パスの分類。
type PathClass int

// パス分類
const (
	PathOther PathClass = iota
	PathLogin
	PathRoleSelection
	PathDashboard
)

// String はメトリクスやログ用の名前を返す。
func (c PathClass) String() string {
	switch c {
	case PathLogin:
		return "login"
	case PathRoleSelection:
		return "role_selection"
	case PathDashboard:
		return "dashboard"
	default:
		return "other"
	}
}

// Classify はリクエストパスを分類する。
// /dashboard 配下は "/dashboard" 自身と "/dashboard/" 始まりのみ一致する。
func Classify(path string) PathClass {
	switch {
	case path == LoginPath:
		return PathLogin
	case path == RoleSelectionPath:
		return PathRoleSelection
	case path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/"):
		return PathDashboard
	default:
		return PathOther
	}
}

// Decision はガードの判定結果。Target が空なら通過。
type Decision struct {
	Target string
}

// Allowed は通過判定かどうかを返す。
func (d Decision) Allowed() bool {
	return d.Target == ""
}

// Decide は認証状態とロール有無から振り分け先を決める。
func Decide(authenticated bool, class PathClass, rolePresent bool) Decision {
	if !authenticated {
		if class == PathDashboard || class == PathRoleSelection {
			return Decision{Target: LoginPath}
		}
		return Decision{}
	}

	// ログイン済みならロールの有無によらずダッシュボードへ送り、
	// ロール未選択の振り分けは次のリクエストで行う
	if class == PathLogin {
		return Decision{Target: DashboardPath}
	}

	if rolePresent {
		if class == PathRoleSelection {
			return Decision{Target: DashboardPath}
		}
		return Decision{}
	}

	if class == PathDashboard {
		return Decision{Target: RoleSelectionPath}
	}
	return Decision{}
}

// DecisionRecorder はガード判定を記録する。
type DecisionRecorder interface {
	RecordGuardDecision(class, target string)
}

// Middleware はセッションミドルウェアが注入したクレームをもとに判定を適用する。
// 対象外のパスはそのまま通過させる。
func Middleware(recorder DecisionRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := Classify(r.URL.Path)
			if class == PathOther {
				next.ServeHTTP(w, r)
				return
			}

			claims := session.ClaimsFromContext(r.Context())
			d := Decide(claims != nil, class, claims != nil && claims.Role.Valid())

			if recorder != nil {
				target := d.Target
				if target == "" {
					target = "allow"
				}
				recorder.RecordGuardDecision(class.String(), target)
			}

			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			slog.Debug("guard redirect",
				slog.String("path", r.URL.Path),
				slog.String("target", d.Target),
			)
			Redirect(w, r, d.Target)
		})
	}
}

// Redirect は同一オリジン内のパスへリダイレクトする。
// GET/HEAD は307、それ以外はフォーム再送を避けるため303を使う。
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	code := http.StatusTemporaryRedirect
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		code = http.StatusSeeOther
	}
	http.Redirect(w, r, target, code)
}
