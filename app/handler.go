package main

import (
	"net/http"

	"github.com/sushihentaime/inkwell/internal/blogservice"
)

type signupRequest struct {
	Fullname string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	var input signupRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	session, err := app.userService.Signup(r.Context(), input.Fullname, input.Email, input.Password)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, session, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) signinHandler(w http.ResponseWriter, r *http.Request) {
	var input signinRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	session, err := app.userService.Signin(r.Context(), input.Email, input.Password)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, session, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type googleAuthRequest struct {
	AccessToken string `json:"access_token"`
}

func (app *application) googleAuthHandler(w http.ResponseWriter, r *http.Request) {
	var input googleAuthRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	session, err := app.userService.GoogleAuth(r.Context(), input.AccessToken)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, session, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) latestBlogsHandler(w http.ResponseWriter, r *http.Request) {
	blogs, err := app.blogService.LatestBlogs(r.Context(), blogservice.DefaultLatestLimit)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type createBlogRequest struct {
	Title   string              `json:"title"`
	Banner  string              `json:"banner"`
	Des     string              `json:"des"`
	Content blogservice.Content `json:"content"`
	Tags    []string            `json:"tags"`
	Draft   bool                `json:"draft"`
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input createBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	req := blogservice.PublishRequest{
		Title:   input.Title,
		Banner:  input.Banner,
		Des:     input.Des,
		Content: input.Content,
		Tags:    input.Tags,
		Draft:   input.Draft,
	}

	id, err := app.blogService.Publish(r.Context(), app.getUserContext(r), &req)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"id": id}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
