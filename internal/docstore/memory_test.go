// internal/docstore/memory_test.go
package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_DocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("正常系: SetDoc したドキュメントを GetDoc で取得できる", func(t *testing.T) {
		err := store.SetDoc(ctx, "tenants/t1", map[string]interface{}{"name": "A"})
		require.NoError(t, err)

		data, err := store.GetDoc(ctx, "tenants/t1")
		require.NoError(t, err)
		assert.Equal(t, "A", data["name"])
	})

	t.Run("正常系: UpdateDoc は指定フィールドだけをマージする", func(t *testing.T) {
		require.NoError(t, store.SetDoc(ctx, "tenants/t2", map[string]interface{}{"name": "B", "active": true}))

		err := store.UpdateDoc(ctx, "tenants/t2", map[string]interface{}{"name": "B2"})
		require.NoError(t, err)

		data, err := store.GetDoc(ctx, "tenants/t2")
		require.NoError(t, err)
		assert.Equal(t, "B2", data["name"])
		assert.Equal(t, true, data["active"])
	})

	t.Run("異常系: 存在しないドキュメントの UpdateDoc は ErrNotFound", func(t *testing.T) {
		err := store.UpdateDoc(ctx, "tenants/missing", map[string]interface{}{"name": "X"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("正常系: DeleteDoc は存在しないパスでもエラーにならない", func(t *testing.T) {
		require.NoError(t, store.SetDoc(ctx, "tenants/t3", map[string]interface{}{"name": "C"}))
		require.NoError(t, store.DeleteDoc(ctx, "tenants/t3"))

		_, err := store.GetDoc(ctx, "tenants/t3")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, store.DeleteDoc(ctx, "tenants/t3"))
	})

	t.Run("正常系: GetDoc が返すデータは内部状態から切り離されている", func(t *testing.T) {
		require.NoError(t, store.SetDoc(ctx, "tenants/t4", map[string]interface{}{"name": "D"}))

		data, err := store.GetDoc(ctx, "tenants/t4")
		require.NoError(t, err)
		data["name"] = "mutated"

		again, err := store.GetDoc(ctx, "tenants/t4")
		require.NoError(t, err)
		assert.Equal(t, "D", again["name"])
	})
}

func TestMemoryStore_Query(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/a", map[string]interface{}{
		"price": 100, "available": true, "createdAt": base,
	}))
	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/b", map[string]interface{}{
		"price": 300, "available": false, "createdAt": base.Add(time.Hour),
	}))
	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/c", map[string]interface{}{
		"price": 200, "available": true, "createdAt": base.Add(2 * time.Hour),
	}))
	// 別テナントとサブコレクションは結果に混ざらないこと
	require.NoError(t, store.SetDoc(ctx, "tenants/t2/items/z", map[string]interface{}{
		"price": 999, "available": true, "createdAt": base,
	}))
	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/a/sub/x", map[string]interface{}{
		"price": 1,
	}))

	t.Run("正常系: コレクション配下の直接の子だけを返す", func(t *testing.T) {
		docs, err := store.GetDocs(ctx, Query{CollectionPath: "tenants/t1/items"})
		require.NoError(t, err)
		assert.Len(t, docs, 3)
	})

	t.Run("正常系: フィルタと並び順が効く", func(t *testing.T) {
		docs, err := store.GetDocs(ctx, Query{
			CollectionPath: "tenants/t1/items",
			Filters:        []Filter{{Field: "available", Op: "==", Value: true}},
			Orders:         []Order{{Field: "price", Desc: true}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "c", docs[0].ID)
		assert.Equal(t, "a", docs[1].ID)
	})

	t.Run("正常系: createdAt の降順", func(t *testing.T) {
		docs, err := store.GetDocs(ctx, Query{
			CollectionPath: "tenants/t1/items",
			Orders:         []Order{{Field: "createdAt", Desc: true}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, []string{"c", "b", "a"}, []string{docs[0].ID, docs[1].ID, docs[2].ID})
	})

	t.Run("正常系: in フィルタ", func(t *testing.T) {
		docs, err := store.GetDocs(ctx, Query{
			CollectionPath: "tenants/t1/items",
			Filters:        []Filter{{Field: "price", Op: "in", Value: []interface{}{100, 200}}},
		})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}

func TestMemoryStore_Snapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/a", map[string]interface{}{"name": "A"}))

	var deliveries [][]Document
	unsubscribe, err := store.Snapshots(ctx, Query{CollectionPath: "tenants/t1/items"}, func(docs []Document) {
		deliveries = append(deliveries, docs)
	})
	require.NoError(t, err)

	// 登録直後に現在の結果セットが1回届く
	require.Len(t, deliveries, 1)
	assert.Len(t, deliveries[0], 1)

	// 書き込みごとに最新の結果セット全体が届く
	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/b", map[string]interface{}{"name": "B"}))
	require.Len(t, deliveries, 2)
	assert.Len(t, deliveries[1], 2)

	// 無関係なコレクションへの書き込みでは発火しない
	require.NoError(t, store.SetDoc(ctx, "tenants/t2/items/z", map[string]interface{}{"name": "Z"}))
	assert.Len(t, deliveries, 2)

	// 解除後は届かない。解除は何度呼んでも安全。
	unsubscribe()
	unsubscribe()
	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/c", map[string]interface{}{"name": "C"}))
	assert.Len(t, deliveries, 2)
}

func TestMemoryStore_DocSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var deliveries []map[string]interface{}
	unsubscribe, err := store.DocSnapshots(ctx, "tenants/t1", func(data map[string]interface{}) {
		deliveries = append(deliveries, data)
	})
	require.NoError(t, err)

	// 未作成のドキュメントを購読すると初回は nil が届く
	require.Len(t, deliveries, 1)
	assert.Nil(t, deliveries[0])

	require.NoError(t, store.SetDoc(ctx, "tenants/t1", map[string]interface{}{"name": "店1"}))
	require.Len(t, deliveries, 2)
	assert.Equal(t, "店1", deliveries[1]["name"])

	require.NoError(t, store.UpdateDoc(ctx, "tenants/t1", map[string]interface{}{"name": "改名"}))
	require.Len(t, deliveries, 3)
	assert.Equal(t, "改名", deliveries[2]["name"])

	// 別ドキュメントやサブコレクションへの書き込みでは発火しない
	require.NoError(t, store.SetDoc(ctx, "tenants/t2", map[string]interface{}{"name": "店2"}))
	require.NoError(t, store.SetDoc(ctx, "tenants/t1/items/a", map[string]interface{}{"name": "A"}))
	assert.Len(t, deliveries, 3)

	// 削除は nil として届く
	require.NoError(t, store.DeleteDoc(ctx, "tenants/t1"))
	require.Len(t, deliveries, 4)
	assert.Nil(t, deliveries[3])

	// 解除後は届かない。解除は何度呼んでも安全。
	unsubscribe()
	unsubscribe()
	require.NoError(t, store.SetDoc(ctx, "tenants/t1", map[string]interface{}{"name": "復活"}))
	assert.Len(t, deliveries, 4)
}
