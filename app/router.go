package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/signup", app.signupHandler)
	router.HandlerFunc(http.MethodPost, "/signin", app.signinHandler)
	router.HandlerFunc(http.MethodPost, "/google-auth", app.googleAuthHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/latest-blogs", app.latestBlogsHandler)
	router.Handler(http.MethodPost, "/create-blog", app.authenticate(app.requireAuthUser(app.createBlogHandler)))

	return app.recoverPanic(app.logRequest(app.enableCORS(router)))
}
