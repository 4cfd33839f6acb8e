package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reviewhub/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewedObjectHandler(t *testing.T) {
	t.Parallel()

	t.Run("metadata document round-trips", func(t *testing.T) {
		t.Parallel()

		objects := &stubReviewedObjects{
			createFn: func(_ context.Context, data store.ReviewedObjectCreate) (*store.ReviewedObject, error) {
				require.Equal(t, "restaurant", data.ObjectType)
				require.Equal(t, "italian", data.Metadata["cuisine"])
				return &store.ReviewedObject{
					ID:         uuid.New(),
					ObjectType: data.ObjectType,
					ObjectID:   data.ObjectID,
					Name:       data.Name,
					Metadata:   data.Metadata,
				}, nil
			},
		}
		app := newTestApplication(t, store.Storage{ReviewedObjects: objects})

		body := `{"object_type":"restaurant","object_id":"ext-42","object_name":"Pasta Palace","object_metadata":{"cuisine":"italian"}}`
		req := httptest.NewRequest(http.MethodPost, "/v1/objects", strings.NewReader(body))
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"cuisine":"italian"`)
	})

	t.Run("duplicate type and external id is a conflict", func(t *testing.T) {
		t.Parallel()

		objects := &stubReviewedObjects{
			createFn: func(context.Context, store.ReviewedObjectCreate) (*store.ReviewedObject, error) {
				return nil, &store.ConstraintError{
					Kind:       store.KindUnique,
					Constraint: "uq_object_type_id",
					Table:      "reviewed_objects",
					Op:         "create reviewed object",
				}
			},
		}
		app := newTestApplication(t, store.Storage{ReviewedObjects: objects})

		body := `{"object_type":"restaurant","object_id":"ext-42","object_name":"Pasta Palace"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/objects", strings.NewReader(body))
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestListReviewedObjectsHandler(t *testing.T) {
	t.Parallel()

	t.Run("type and external id do a natural-key lookup", func(t *testing.T) {
		t.Parallel()

		objects := &stubReviewedObjects{
			getByTypeAndIDFn: func(_ context.Context, objectType, externalID string) (*store.ReviewedObject, error) {
				require.Equal(t, "movie", objectType)
				require.Equal(t, "tt0111161", externalID)
				return &store.ReviewedObject{ID: uuid.New(), ObjectType: objectType, ObjectID: externalID, Name: "The Shawshank Redemption"}, nil
			},
		}
		app := newTestApplication(t, store.Storage{ReviewedObjects: objects})

		req := httptest.NewRequest(http.MethodGet, "/v1/objects?type=movie&external_id=tt0111161", nil)
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Shawshank")
	})

	t.Run("missing natural key is 404", func(t *testing.T) {
		t.Parallel()

		objects := &stubReviewedObjects{
			getByTypeAndIDFn: func(context.Context, string, string) (*store.ReviewedObject, error) {
				return nil, store.ErrNotFound
			},
		}
		app := newTestApplication(t, store.Storage{ReviewedObjects: objects})

		req := httptest.NewRequest(http.MethodGet, "/v1/objects?type=movie&external_id=unknown", nil)
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("type filter pages by type", func(t *testing.T) {
		t.Parallel()

		objects := &stubReviewedObjects{
			getByTypeFn: func(_ context.Context, objectType string, skip, limit int) ([]store.ReviewedObject, error) {
				require.Equal(t, "restaurant", objectType)
				return []store.ReviewedObject{}, nil
			},
		}
		app := newTestApplication(t, store.Storage{ReviewedObjects: objects})

		req := httptest.NewRequest(http.MethodGet, "/v1/objects?type=restaurant", nil)
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestUpdateReviewedObjectHandler(t *testing.T) {
	t.Parallel()

	t.Run("partial payload forwards only set fields", func(t *testing.T) {
		t.Parallel()

		objects := &stubReviewedObjects{
			updateFn: func(_ context.Context, id uuid.UUID, data store.ReviewedObjectUpdate) (*store.ReviewedObject, error) {
				_, hasType := data["object_type"]
				require.False(t, hasType)
				require.Equal(t, "cozy trattoria", data["object_description"])
				desc := "cozy trattoria"
				return &store.ReviewedObject{ID: id, Name: "Pasta Palace", Description: &desc}, nil
			},
		}
		app := newTestApplication(t, store.Storage{ReviewedObjects: objects})

		body := `{"object_description":"cozy trattoria"}`
		req := httptest.NewRequest(http.MethodPatch, "/v1/objects/"+uuid.NewString(), strings.NewReader(body))
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "cozy trattoria")
	})

	t.Run("explicit null drops the metadata document", func(t *testing.T) {
		t.Parallel()

		objects := &stubReviewedObjects{
			updateFn: func(_ context.Context, id uuid.UUID, data store.ReviewedObjectUpdate) (*store.ReviewedObject, error) {
				val, present := data["object_metadata"]
				require.True(t, present, "null field must still reach the store")
				require.Nil(t, val)
				return &store.ReviewedObject{ID: id, Name: "Pasta Palace"}, nil
			},
		}
		app := newTestApplication(t, store.Storage{ReviewedObjects: objects})

		body := `{"object_metadata":null}`
		req := httptest.NewRequest(http.MethodPatch, "/v1/objects/"+uuid.NewString(), strings.NewReader(body))
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"object_metadata":null`)
	})
}
