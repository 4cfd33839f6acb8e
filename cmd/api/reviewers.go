package main

import (
	"errors"
	"net/http"

	"reviewhub/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createReviewerPayload struct {
	Username string  `json:"username" validate:"required,max=50"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

func (app *application) createReviewerHandler(w http.ResponseWriter, r *http.Request) {
	var payload createReviewerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reviewer, err := app.store.Reviewers.Create(r.Context(), store.ReviewerCreate{
		Username: payload.Username,
		Email:    payload.Email,
		FullName: payload.FullName,
	})
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, reviewer)
}

func (app *application) getReviewerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reviewerID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid reviewer ID"))
		return
	}

	reviewer, err := app.store.Reviewers.GetByID(r.Context(), id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviewer)
}

func (app *application) getReviewerByUsernameHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	reviewer, err := app.store.Reviewers.GetByUsername(r.Context(), username)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviewer)
}

func (app *application) listReviewersHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	reviewers, err := app.store.Reviewers.GetAll(r.Context(), skip, limit)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviewers)
}

// updateReviewerHandler decodes the patch body as a field map so that a field
// explicitly set to null clears the column while an absent field is left
// alone.
func (app *application) updateReviewerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reviewerID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid reviewer ID"))
		return
	}

	var payload store.ReviewerUpdate
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.Validate(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reviewer, err := app.store.Reviewers.Update(r.Context(), id, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviewer)
}

func (app *application) deleteReviewerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reviewerID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid reviewer ID"))
		return
	}

	deleted, err := app.store.Reviewers.Delete(r.Context(), id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}
	if !deleted {
		app.notFoundResponse(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) listReviewerReviewsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reviewerID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid reviewer ID"))
		return
	}

	skip, limit := pagination(r)

	reviews, err := app.store.Reviews.GetByReviewer(r.Context(), id, skip, limit)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviews)
}
