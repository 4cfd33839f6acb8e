package main

import (
	"errors"
	"net/http"

	"reviewhub/internal/store"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusNotFound, "resource not found")
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) unprocessableEntityResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unprocessable entity", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) unavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("storage unavailable", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
}

// storeErrorResponse maps the store's error taxonomy onto status codes:
// absence is 404, a bad update field is 400, uniqueness and
// referential-integrity rejections are 409, check/not-null rejections are
// 422, unreachable storage is 503.
func (app *application) storeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var cerr *store.ConstraintError

	switch {
	case errors.Is(err, store.ErrNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, store.ErrInvalidField):
		app.badRequestResponse(w, r, err)
	case errors.As(err, &cerr):
		switch cerr.Kind {
		case store.KindUnique, store.KindForeignKey:
			app.conflictResponse(w, r, err)
		default:
			app.unprocessableEntityResponse(w, r, err)
		}
	case errors.Is(err, store.ErrUnavailable):
		app.unavailableResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
