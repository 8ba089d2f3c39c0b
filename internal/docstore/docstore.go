// internal/docstore/docstore.go
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound は対象ドキュメントが存在しない場合に返します。
// 呼び出し側（リポジトリ層）で model.ErrNotFound に変換します。
var ErrNotFound = errors.New("docstore: document not found")

// Document はストアから読み出した1ドキュメント
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Filter はクエリの絞り込み条件。Op は "==", "!=", "<", "<=", ">", ">=", "in" をサポート。
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Order はクエリの並び順
type Order struct {
	Field string
	Desc  bool
}

// Query はコレクションに対する問い合わせ。
// CollectionPath は "tenants/{tenantID}/categories" のような奇数セグメントのパス。
type Query struct {
	CollectionPath string
	Filters        []Filter
	Orders         []Order
}

// SnapshotFunc はライブクエリの結果セット全体を受け取るコールバック。
// 差分ではなく、変更のたびに最新の結果セット全体で呼び出されます。
type SnapshotFunc func(docs []Document)

// DocSnapshotFunc は単一ドキュメント購読のコールバック。
// ドキュメントが存在しない間は nil で呼び出されます。
type DocSnapshotFunc func(data map[string]interface{})

// Unsubscribe はライブクエリを解放する。ちょうど1回呼び出すこと。
type Unsubscribe func()

// Store はリモートドキュメントストアへの薄いアダプタ。
// ドキュメントパスは "tenants/{tenantID}" のような偶数セグメントのパス。
// グローバルなクライアントは持たず、main で構築してリポジトリに注入します。
type Store interface {
	// GetDoc はドキュメントを1件取得します。存在しない場合は ErrNotFound。
	GetDoc(ctx context.Context, path string) (map[string]interface{}, error)
	// SetDoc はドキュメント全体を上書き（なければ作成）します。
	SetDoc(ctx context.Context, path string, data map[string]interface{}) error
	// UpdateDoc は指定フィールドのみマージ更新します。
	// 対象が存在しない場合は ErrNotFound（暗黙のupsertはしない）。
	UpdateDoc(ctx context.Context, path string, updates map[string]interface{}) error
	// DeleteDoc はドキュメントを物理削除します。存在しなくてもエラーにしません。
	DeleteDoc(ctx context.Context, path string) error
	// AddDoc はIDを自動採番してコレクションに追加し、採番したIDを返します。
	AddDoc(ctx context.Context, collectionPath string, data map[string]interface{}) (string, error)
	// GetDocs はクエリを1回実行して結果を返します（ポイントインタイムのスナップショット）。
	GetDocs(ctx context.Context, q Query) ([]Document, error)
	// Snapshots はライブクエリを張り、結果セットが変わるたびに fn を呼び出します。
	// 返された Unsubscribe の呼び出しで解放するまでリソースを保持し続けます。
	Snapshots(ctx context.Context, q Query, fn SnapshotFunc) (Unsubscribe, error)
	// DocSnapshots は単一ドキュメントのライブ購読。コレクション全体は見ない。
	DocSnapshots(ctx context.Context, path string, fn DocSnapshotFunc) (Unsubscribe, error)
	// Close はクライアントを解放します。
	Close() error
}
