package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockHost implements Host for testing.
type MockHost struct {
	ListAssetsFunc  func(ctx context.Context, folder, cursor string, limit int) (*AssetList, error)
	DeleteAssetFunc func(ctx context.Context, publicID string) error
	RenameAssetFunc func(ctx context.Context, from, to string) (*Asset, error)
}

func (m *MockHost) ListAssets(ctx context.Context, folder, cursor string, limit int) (*AssetList, error) {
	if m.ListAssetsFunc != nil {
		return m.ListAssetsFunc(ctx, folder, cursor, limit)
	}
	return &AssetList{Assets: []Asset{}}, nil
}

func (m *MockHost) DeleteAsset(ctx context.Context, publicID string) error {
	if m.DeleteAssetFunc != nil {
		return m.DeleteAssetFunc(ctx, publicID)
	}
	return nil
}

func (m *MockHost) RenameAsset(ctx context.Context, from, to string) (*Asset, error) {
	if m.RenameAssetFunc != nil {
		return m.RenameAssetFunc(ctx, from, to)
	}
	return &Asset{PublicID: to}, nil
}

func TestHandleListAssets(t *testing.T) {
	t.Run("ForwardsFolderAndCursor", func(t *testing.T) {
		var gotFolder, gotCursor string
		var gotLimit int
		host := &MockHost{
			ListAssetsFunc: func(ctx context.Context, folder, cursor string, limit int) (*AssetList, error) {
				gotFolder, gotCursor, gotLimit = folder, cursor, limit
				return &AssetList{
					Assets:     []Asset{{PublicID: "covers/mix-1"}},
					NextCursor: "next",
				}, nil
			},
		}
		srv := NewServer(host)

		req := httptest.NewRequest("GET", "/assets?folder=covers&cursor=tok&limit=5", nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "covers", gotFolder)
		assert.Equal(t, "tok", gotCursor)
		assert.Equal(t, 5, gotLimit)

		var list AssetList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list.Assets, 1)
		assert.Equal(t, "next", list.NextCursor)
	})

	t.Run("UpstreamErrorIsGeneric", func(t *testing.T) {
		host := &MockHost{
			ListAssetsFunc: func(ctx context.Context, folder, cursor string, limit int) (*AssetList, error) {
				return nil, errors.New("media host status 401: invalid signature abc")
			},
		}
		srv := NewServer(host)

		req := httptest.NewRequest("GET", "/assets", nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "failed to query media provider")
		assert.NotContains(t, w.Body.String(), "signature")
	})
}

func TestHandleDeleteAsset(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotID string
		host := &MockHost{
			DeleteAssetFunc: func(ctx context.Context, publicID string) error {
				gotID = publicID
				return nil
			},
		}
		srv := NewServer(host)

		req := httptest.NewRequest("DELETE", "/assets/mix-1", nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "mix-1", gotID)
		assert.Contains(t, w.Body.String(), "deleted")
	})

	t.Run("UpstreamError", func(t *testing.T) {
		host := &MockHost{
			DeleteAssetFunc: func(ctx context.Context, publicID string) error {
				return errors.New("media host status 404")
			},
		}
		srv := NewServer(host)

		req := httptest.NewRequest("DELETE", "/assets/mix-1", nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestHandleRenameAsset(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := NewServer(&MockHost{})

		body, _ := json.Marshal(map[string]string{"from": "covers/old", "to": "covers/new"})
		req := httptest.NewRequest("POST", "/assets/rename", bytes.NewReader(body))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var asset Asset
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &asset))
		assert.Equal(t, "covers/new", asset.PublicID)
	})

	t.Run("MissingFields", func(t *testing.T) {
		srv := NewServer(&MockHost{})

		body, _ := json.Marshal(map[string]string{"from": "covers/old"})
		req := httptest.NewRequest("POST", "/assets/rename", bytes.NewReader(body))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		srv := NewServer(&MockHost{})

		req := httptest.NewRequest("POST", "/assets/rename", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
