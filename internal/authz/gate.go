// Package authz は認可判定を提供する。
//
// 判定は認証（トークン検証）→ ロール → 所有権の順に述語を合成した
// パイプラインとして行い、タグ付きのDecisionを返す。
// 各述語は解決済みのクレームと取得済みレコードのみを入力とする純粋関数であり、
// I/Oは行わない。
package authz

import (
	"github.com/hitoshi/taskward/internal/model"
	"github.com/hitoshi/taskward/internal/token"
)

// Decision は認可判定の結果を表す。
type Decision int

const (
	// Allow は操作の実行を許可する。
	Allow Decision = iota
	// DenyUnauthenticated は認証されていないため拒否する（401相当）。
	DenyUnauthenticated
	// DenyForbidden は認証済みだが必要なロールを持たないため拒否する（403相当）。
	// 401と403は決して混同しない。
	DenyForbidden
	// DenyNotFound は対象レコードが存在しない、または存在を開示すべきでないため拒否する（404相当）。
	DenyNotFound
)

// Allowed は判定が許可かどうかを返す。
func (d Decision) Allowed() bool {
	return d == Allow
}

// String はログ出力用の判定名を返す。
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	case DenyNotFound:
		return "deny_not_found"
	default:
		return "unknown"
	}
}

// Predicate は認可判定の1段階を表す述語。
type Predicate func() Decision

// Evaluate は述語を順に評価し、最初のAllow以外の判定で打ち切る。
// すべての述語がAllowを返した場合のみAllowを返す。
func Evaluate(preds ...Predicate) Decision {
	for _, p := range preds {
		if d := p(); !d.Allowed() {
			return d
		}
	}
	return Allow
}

// Authenticated はクレームが解決済みであることを要求する述語を返す。
func Authenticated(claims *token.Claims) Predicate {
	return func() Decision {
		if claims == nil || claims.SubjectID() == "" {
			return DenyUnauthenticated
		}
		return Allow
	}
}

// HasRole はクレームのロールが許可リストに含まれることを要求する述語を返す。
// ロールはトークン発行時のスナップショットで判定する（発行後の変更は次回ログインから反映）。
func HasRole(claims *token.Claims, roles ...model.Role) Predicate {
	return func() Decision {
		if claims == nil {
			return DenyUnauthenticated
		}
		for _, r := range roles {
			if claims.Role == r {
				return Allow
			}
		}
		return DenyForbidden
	}
}

// OwnsRecord はレコード単位の所有権ポリシーを適用する述語を返す。
//
// レコードが存在しない場合は所有権チェックより先にDenyNotFoundを返す。
// 存在する場合、所有者本人または管理者ロールのみAllowとなる。
// 所有権のない呼び出し元にもDenyNotFoundを返し、
// 「存在するが他人のもの」と「存在しない」を区別できないようにする。
func OwnsRecord(claims *token.Claims, ownerID string, exists bool) Predicate {
	return func() Decision {
		if claims == nil {
			return DenyUnauthenticated
		}
		if !exists {
			return DenyNotFound
		}
		if claims.SubjectID() == ownerID || claims.Role == model.RoleAdmin {
			return Allow
		}
		return DenyNotFound
	}
}

// AuthorizeRecord はレコード単位操作の標準パイプライン
// （認証 → 所有権）を評価するヘルパー。
// taskはnilの場合「存在しない」として扱う。
func AuthorizeRecord(claims *token.Claims, task *model.Task) Decision {
	ownerID := ""
	exists := task != nil
	if exists {
		ownerID = task.OwnerID
	}
	return Evaluate(
		Authenticated(claims),
		OwnsRecord(claims, ownerID, exists),
	)
}
