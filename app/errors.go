package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

const internalErrorMessage = "the server encountered a problem and could not process your request"

func (app *application) logError(r *http.Request, err error) {
	var (
		method  = r.Method
		url     = r.URL.RequestURI()
		message = err.Error()
	)

	app.logger.Error(message, slog.String("method", method), slog.String("url", url))
}

func (app *application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	err := app.writeJSON(w, status, envelope{"error": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.writeErrorResponse(w, r, http.StatusInternalServerError, internalErrorMessage)
}

func (app *application) badRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusNotFound, "resource not found")
}

func (app *application) methodNotAllowedErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func (app *application) missingTokenResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusUnauthorized, "No access token")
}

func (app *application) invalidTokenResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusForbidden, "Access token is invalid")
}

// errorResponse maps service errors to the single {"error": message} envelope.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr common.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.writeErrorResponse(w, r, http.StatusForbidden, validationErr.Message)
	case errors.Is(err, userservice.ErrDuplicateEmail):
		app.writeErrorResponse(w, r, http.StatusForbidden, "Email already exists")
	case errors.Is(err, userservice.ErrDuplicateUsername):
		app.writeErrorResponse(w, r, http.StatusForbidden, "Username already exists")
	case errors.Is(err, userservice.ErrNotFound):
		app.writeErrorResponse(w, r, http.StatusForbidden, "Email not found")
	case errors.Is(err, userservice.ErrAuthenticationFailure):
		app.writeErrorResponse(w, r, http.StatusForbidden, "Incorrect password")
	case errors.Is(err, userservice.ErrFederatedAccount):
		app.writeErrorResponse(w, r, http.StatusForbidden, "Account was created using google. Try logging in with google.")
	case errors.Is(err, userservice.ErrPasswordAccount):
		app.writeErrorResponse(w, r, http.StatusForbidden, "This email was signed up without google. Please log in with password to access the account")
	case errors.Is(err, userservice.ErrIdentityVerification):
		app.logError(r, err)
		app.writeErrorResponse(w, r, http.StatusInternalServerError, "Failed to authenticate you with google. Try with some other google account")
	case errors.Is(err, userservice.ErrMissingToken):
		app.missingTokenResponse(w, r)
	case errors.Is(err, userservice.ErrInvalidToken):
		app.invalidTokenResponse(w, r)
	case errors.Is(err, blogservice.ErrUserForeignKey):
		app.writeErrorResponse(w, r, http.StatusUnauthorized, "Author does not exist")
	case errors.Is(err, blogservice.ErrAuthorUpdate):
		app.logError(r, err)
		app.writeErrorResponse(w, r, http.StatusInternalServerError, "failed to update total posts")
	default:
		app.serverErrorResponse(w, r, err)
	}
}
