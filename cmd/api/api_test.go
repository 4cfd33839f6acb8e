package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestApplication(t *testing.T, st store.Storage) *application {
	t.Helper()

	return &application{
		config: config{addr: ":0", env: "test"},
		store:  st,
		logger: zap.NewNop().Sugar(),
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// Stub repositories: each method delegates to a func field so tests only wire
// what they exercise. A nil field means the test never expected that call.

type stubReviewers struct {
	createFn        func(context.Context, store.ReviewerCreate) (*store.Reviewer, error)
	getByIDFn       func(context.Context, uuid.UUID) (*store.Reviewer, error)
	getByUsernameFn func(context.Context, string) (*store.Reviewer, error)
	getByEmailFn    func(context.Context, string) (*store.Reviewer, error)
	getAllFn        func(context.Context, int, int) ([]store.Reviewer, error)
	updateFn        func(context.Context, uuid.UUID, store.ReviewerUpdate) (*store.Reviewer, error)
	deleteFn        func(context.Context, uuid.UUID) (bool, error)
}

func (s *stubReviewers) Create(ctx context.Context, data store.ReviewerCreate) (*store.Reviewer, error) {
	return s.createFn(ctx, data)
}

func (s *stubReviewers) GetByID(ctx context.Context, id uuid.UUID) (*store.Reviewer, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubReviewers) GetByUsername(ctx context.Context, username string) (*store.Reviewer, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *stubReviewers) GetByEmail(ctx context.Context, email string) (*store.Reviewer, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubReviewers) GetAll(ctx context.Context, skip, limit int) ([]store.Reviewer, error) {
	return s.getAllFn(ctx, skip, limit)
}

func (s *stubReviewers) Update(ctx context.Context, id uuid.UUID, data store.ReviewerUpdate) (*store.Reviewer, error) {
	return s.updateFn(ctx, id, data)
}

func (s *stubReviewers) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleteFn(ctx, id)
}

type stubReviewedObjects struct {
	createFn         func(context.Context, store.ReviewedObjectCreate) (*store.ReviewedObject, error)
	getByIDFn        func(context.Context, uuid.UUID) (*store.ReviewedObject, error)
	getByTypeAndIDFn func(context.Context, string, string) (*store.ReviewedObject, error)
	getByTypeFn      func(context.Context, string, int, int) ([]store.ReviewedObject, error)
	getAllFn         func(context.Context, int, int) ([]store.ReviewedObject, error)
	updateFn         func(context.Context, uuid.UUID, store.ReviewedObjectUpdate) (*store.ReviewedObject, error)
	deleteFn         func(context.Context, uuid.UUID) (bool, error)
}

func (s *stubReviewedObjects) Create(ctx context.Context, data store.ReviewedObjectCreate) (*store.ReviewedObject, error) {
	return s.createFn(ctx, data)
}

func (s *stubReviewedObjects) GetByID(ctx context.Context, id uuid.UUID) (*store.ReviewedObject, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubReviewedObjects) GetByTypeAndID(ctx context.Context, objectType, externalID string) (*store.ReviewedObject, error) {
	return s.getByTypeAndIDFn(ctx, objectType, externalID)
}

func (s *stubReviewedObjects) GetByType(ctx context.Context, objectType string, skip, limit int) ([]store.ReviewedObject, error) {
	return s.getByTypeFn(ctx, objectType, skip, limit)
}

func (s *stubReviewedObjects) GetAll(ctx context.Context, skip, limit int) ([]store.ReviewedObject, error) {
	return s.getAllFn(ctx, skip, limit)
}

func (s *stubReviewedObjects) Update(ctx context.Context, id uuid.UUID, data store.ReviewedObjectUpdate) (*store.ReviewedObject, error) {
	return s.updateFn(ctx, id, data)
}

func (s *stubReviewedObjects) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleteFn(ctx, id)
}

type stubReviews struct {
	createFn                 func(context.Context, store.ReviewCreate) (*store.Review, error)
	getByIDFn                func(context.Context, uuid.UUID) (*store.Review, error)
	getByReviewerAndObjectFn func(context.Context, uuid.UUID, uuid.UUID) (*store.Review, error)
	getByReviewerFn          func(context.Context, uuid.UUID, int, int) ([]store.Review, error)
	getByObjectFn            func(context.Context, uuid.UUID, int, int) ([]store.Review, error)
	getAllFn                 func(context.Context, int, int) ([]store.Review, error)
	updateFn                 func(context.Context, uuid.UUID, store.ReviewUpdate) (*store.Review, error)
	deleteFn                 func(context.Context, uuid.UUID) (bool, error)
	statsFn                  func(context.Context, uuid.UUID) (*store.ReviewStats, error)
}

func (s *stubReviews) Create(ctx context.Context, data store.ReviewCreate) (*store.Review, error) {
	return s.createFn(ctx, data)
}

func (s *stubReviews) GetByID(ctx context.Context, id uuid.UUID) (*store.Review, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubReviews) GetByReviewerAndObject(ctx context.Context, reviewerID, objectID uuid.UUID) (*store.Review, error) {
	return s.getByReviewerAndObjectFn(ctx, reviewerID, objectID)
}

func (s *stubReviews) GetByReviewer(ctx context.Context, reviewerID uuid.UUID, skip, limit int) ([]store.Review, error) {
	return s.getByReviewerFn(ctx, reviewerID, skip, limit)
}

func (s *stubReviews) GetByObject(ctx context.Context, objectID uuid.UUID, skip, limit int) ([]store.Review, error) {
	return s.getByObjectFn(ctx, objectID, skip, limit)
}

func (s *stubReviews) GetAll(ctx context.Context, skip, limit int) ([]store.Review, error) {
	return s.getAllFn(ctx, skip, limit)
}

func (s *stubReviews) Update(ctx context.Context, id uuid.UUID, data store.ReviewUpdate) (*store.Review, error) {
	return s.updateFn(ctx, id, data)
}

func (s *stubReviews) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubReviews) Stats(ctx context.Context, objectID uuid.UUID) (*store.ReviewStats, error) {
	return s.statsFn(ctx, objectID)
}
