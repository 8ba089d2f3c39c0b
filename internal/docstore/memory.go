// internal/docstore/memory.go
package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore はテスト・ローカル開発用のインメモリ実装。
// Store がコンストラクタ注入になっているのは、この差し替えを可能にするため。
type MemoryStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]interface{} // ドキュメントパス -> データ
	subs    map[int]*memorySub
	docSubs map[int]*memoryDocSub
	nextID  int
}

type memorySub struct {
	q  Query
	fn SnapshotFunc
}

type memoryDocSub struct {
	path string
	fn   DocSnapshotFunc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:    make(map[string]map[string]interface{}),
		subs:    make(map[int]*memorySub),
		docSubs: make(map[int]*memoryDocSub),
	}
}

var _ Store = (*MemoryStore)(nil)

func parentCollection(docPath string) string {
	idx := strings.LastIndex(docPath, "/")
	if idx < 0 {
		return ""
	}
	return docPath[:idx]
}

func copyData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) GetDoc(_ context.Context, path string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return copyData(data), nil
}

func (s *MemoryStore) SetDoc(_ context.Context, path string, data map[string]interface{}) error {
	s.mu.Lock()
	s.docs[path] = copyData(data)
	pending := s.collectNotifications(path)
	s.mu.Unlock()

	deliver(pending)
	return nil
}

func (s *MemoryStore) UpdateDoc(_ context.Context, path string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	data, ok := s.docs[path]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range updates {
		data[k] = v
	}
	pending := s.collectNotifications(path)
	s.mu.Unlock()

	deliver(pending)
	return nil
}

func (s *MemoryStore) DeleteDoc(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	pending := s.collectNotifications(path)
	s.mu.Unlock()

	deliver(pending)
	return nil
}

func (s *MemoryStore) AddDoc(_ context.Context, collectionPath string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.docs[collectionPath+"/"+id] = copyData(data)
	pending := s.collectNotifications(collectionPath + "/" + id)
	s.mu.Unlock()

	deliver(pending)
	return id, nil
}

func (s *MemoryStore) GetDocs(_ context.Context, q Query) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runQuery(q), nil
}

// Snapshots は購読登録時に現在の結果セットを同期的に1回配信し、
// 以降は該当コレクションへの書き込みごとに最新の結果セット全体を配信します。
func (s *MemoryStore) Snapshots(_ context.Context, q Query, fn SnapshotFunc) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = &memorySub{q: q, fn: fn}
	initial := s.runQuery(q)
	s.mu.Unlock()

	fn(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}, nil
}

// DocSnapshots は購読登録時に現在値（なければ nil）を同期的に1回配信し、
// 以降はそのドキュメントへの書き込みごとに配信します。
func (s *MemoryStore) DocSnapshots(_ context.Context, path string, fn DocSnapshotFunc) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.docSubs[id] = &memoryDocSub{path: path, fn: fn}
	initial := s.currentData(path)
	s.mu.Unlock()

	fn(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.docSubs, id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// currentData は s.mu を保持した状態で呼ぶこと
func (s *MemoryStore) currentData(path string) map[string]interface{} {
	data, ok := s.docs[path]
	if !ok {
		return nil
	}
	return copyData(data)
}

// collectNotifications は s.mu を保持した状態で呼ぶこと。
// 書き込まれたドキュメントのパスを受け取り、親コレクションへのクエリ購読と
// ドキュメント単体の購読の両方に配る。コールバック自体はロック解放後に
// deliver で実行する。
func (s *MemoryStore) collectNotifications(docPath string) []func() {
	var pending []func()
	collection := parentCollection(docPath)
	for _, sub := range s.subs {
		if sub.q.CollectionPath == collection {
			docs := s.runQuery(sub.q)
			pending = append(pending, func() { sub.fn(docs) })
		}
	}
	for _, sub := range s.docSubs {
		if sub.path == docPath {
			data := s.currentData(docPath)
			pending = append(pending, func() { sub.fn(data) })
		}
	}
	return pending
}

func deliver(pending []func()) {
	for _, fn := range pending {
		fn()
	}
}

// runQuery は s.mu を保持した状態で呼ぶこと
func (s *MemoryStore) runQuery(q Query) []Document {
	var docs []Document
	prefix := q.CollectionPath + "/"
	for path, data := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := path[len(prefix):]
		// サブコレクション配下のドキュメントは対象外
		if strings.Contains(id, "/") {
			continue
		}
		if !matchFilters(data, q.Filters) {
			continue
		}
		docs = append(docs, Document{ID: id, Data: copyData(data)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range q.Orders {
			c := compareValues(docs[i].Data[o.Field], docs[j].Data[o.Field])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		// 並び順が同値の場合はIDで安定化
		return docs[i].ID < docs[j].ID
	})
	return docs
}

func matchFilters(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case "==":
			if compareValues(v, f.Value) != 0 {
				return false
			}
		case "!=":
			if compareValues(v, f.Value) == 0 {
				return false
			}
		case "<":
			if compareValues(v, f.Value) >= 0 {
				return false
			}
		case "<=":
			if compareValues(v, f.Value) > 0 {
				return false
			}
		case ">":
			if compareValues(v, f.Value) <= 0 {
				return false
			}
		case ">=":
			if compareValues(v, f.Value) < 0 {
				return false
			}
		case "in":
			if !matchIn(v, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchIn(v interface{}, candidates interface{}) bool {
	switch list := candidates.(type) {
	case []interface{}:
		for _, c := range list {
			if compareValues(v, c) == 0 {
				return true
			}
		}
	case []string:
		for _, c := range list {
			if compareValues(v, c) == 0 {
				return true
			}
		}
	}
	return false
}

// compareValues は数値同士は型を跨いで比較する（Firestoreの数値は int64/float64 が混在するため）
func compareValues(a, b interface{}) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
