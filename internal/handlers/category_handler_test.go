// internal/handlers/category_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"menu_admin/internal/docstore"
	"menu_admin/internal/model"
	"menu_admin/internal/repository"
	"menu_admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTenant は認証ミドルウェアの代わりにテナントIDをコンテキストへ積む
func withTenant(tenantID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), model.TenantIDKey, tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newCategoryTestServer(tenantID uuid.UUID) (*chi.Mux, service.MenuService) {
	store := docstore.NewMemoryStore()
	menuService := service.NewMenuService(
		repository.NewDocCategoryRepository(store),
		repository.NewDocMenuItemRepository(store),
	)
	handler := NewCategoryHandler(menuService)

	router := chi.NewRouter()
	router.Use(withTenant(tenantID))
	router.Get("/categories", handler.ListCategories)
	router.Post("/categories", handler.CreateCategory)
	router.Get("/categories/{categoryID}", handler.GetCategory)
	router.Patch("/categories/{categoryID}", handler.UpdateCategory)
	router.Delete("/categories/{categoryID}", handler.DeleteCategory)
	return router, menuService
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCategoryHandler_CreateAndList(t *testing.T) {
	router, _ := newCategoryTestServer(uuid.New())

	t.Run("正常系: 作成は201で本体が返る", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/categories", map[string]interface{}{
			"name":        "前菜",
			"description": "軽めの一皿",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created model.Category
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.CategoryID)
		assert.Equal(t, "前菜", created.Name)
		assert.Equal(t, 1, created.Order)
		assert.True(t, created.Visible)
	})

	t.Run("正常系: 一覧に反映される", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/categories", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var categories []model.Category
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
		assert.Len(t, categories, 1)
	})

	t.Run("異常系: nameが無いと400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/categories", map[string]interface{}{
			"description": "名前なし",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp model.APIErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	})

	t.Run("異常系: 未知フィールドは400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/categories", map[string]interface{}{
			"name":    "怪しい",
			"unknown": true,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoryHandler_DeleteGuardReturnsConflict(t *testing.T) {
	tenantID := uuid.New()
	router, menuService := newCategoryTestServer(tenantID)
	ctx := context.Background()

	category, err := menuService.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "ドリンク"})
	require.NoError(t, err)
	_, err = menuService.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
		Name: "コーヒー", Price: 500, CategoryID: category.CategoryID,
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/categories/"+category.CategoryID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CATEGORY_HAS_ITEMS", resp.Error.Code)
}

func TestCategoryHandler_NotFound(t *testing.T) {
	router, _ := newCategoryTestServer(uuid.New())

	rec := doJSON(t, router, http.MethodGet, "/categories/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CATEGORY_NOT_FOUND", resp.Error.Code)
}
