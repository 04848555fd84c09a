package main

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/inkwell/internal/userservice"
)

func signup(t *testing.T, ts *testServer, fullname, email, password string) envelope {
	t.Helper()

	status, _, body := ts.post(t, "/signup", map[string]any{
		"fullName": fullname,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, status, body)

	return body
}

func TestSignupHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	body := signup(t, ts, "Jane Doe", "Jane@X.com", "Abcde1f")
	assert.Equal(t, "jane", body["username"])
	assert.Equal(t, "Jane Doe", body["fullname"])
	assert.Contains(t, body["profile_img"], "https://api.dicebear.com/")
	assert.NotEmpty(t, body["access_token"])

	testCases := []struct {
		name       string
		payload    any
		wantStatus int
		wantBody   envelope
	}{
		{
			name:       "Duplicate Email",
			payload:    map[string]any{"fullName": "Jane Again", "email": "jane@x.com", "password": "Abcde1f"},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "Email already exists"},
		},
		{
			name:       "Short Fullname",
			payload:    map[string]any{"fullName": "Jo", "email": "jo@x.com", "password": "Abcde1f"},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "Fullname must be at least 3 letters long"},
		},
		{
			name:       "Missing Email",
			payload:    map[string]any{"fullName": "John Doe", "password": "Abcde1f"},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "Enter email"},
		},
		{
			name:       "Invalid Email",
			payload:    map[string]any{"fullName": "John Doe", "email": "john", "password": "Abcde1f"},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "Email is invalid"},
		},
		{
			name:       "Weak Password",
			payload:    map[string]any{"fullName": "John Doe", "email": "john@x.com", "password": "abcdefg"},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "Password should be 6 to 20 characters long with a numeric, 1 lowercase and 1 uppercase letter"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, gotBody := ts.post(t, "/signup", tc.payload, "")
			assert.Equal(t, tc.wantStatus, status)
			assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
		})
	}

	t.Run("Malformed JSON", func(t *testing.T) {
		status, _, gotBody := ts.do(t, http.MethodPost, "/signup", strings.NewReader(`{"email":`), "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, gotBody["error"])
	})
}

func TestSignupUsernameCollision(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	first := signup(t, ts, "Jane Doe", "jane@x.com", "Abcde1f")
	second := signup(t, ts, "Jane Other", "jane@y.com", "Abcde1f")

	assert.Equal(t, "jane", first["username"])
	assert.Regexp(t, regexp.MustCompile(`^jane[A-Za-z0-9_-]{5}$`), second["username"])
}

func TestSigninHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	signup(t, ts, "Jane Doe", "jane@x.com", "Abcde1f")

	testCases := []struct {
		name       string
		payload    any
		wantStatus int
		wantErr    string
	}{
		{
			name:       "Valid Credentials",
			payload:    map[string]any{"email": "JANE@x.com", "password": "Abcde1f"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Unknown Email",
			payload:    map[string]any{"email": "nobody@x.com", "password": "Abcde1f"},
			wantStatus: http.StatusForbidden,
			wantErr:    "Email not found",
		},
		{
			name:       "Wrong Password",
			payload:    map[string]any{"email": "jane@x.com", "password": "Abcde1g"},
			wantStatus: http.StatusForbidden,
			wantErr:    "Incorrect password",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, body := ts.post(t, "/signin", tc.payload, "")
			assert.Equal(t, tc.wantStatus, status)

			if tc.wantErr != "" {
				assert.Equal(t, tc.wantErr, body["error"])
				return
			}

			assert.Equal(t, "jane", body["username"])
			assert.NotEmpty(t, body["access_token"])
		})
	}
}

func TestGoogleAuthHandler(t *testing.T) {
	app, _, verifier := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	verifier.On("Verify", mock.Anything, "good-token").Return(&userservice.GoogleProfile{
		Email:   "gina@gmail.com",
		Name:    "Gina Google",
		Picture: "https://lh3.googleusercontent.com/a/photo=s384-c",
	}, nil)
	verifier.On("Verify", mock.Anything, "bad-token").Return(nil, userservice.ErrIdentityVerification)

	status, _, body := ts.post(t, "/google-auth", map[string]any{"access_token": "good-token"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "gina", body["username"])
	assert.Equal(t, "Gina Google", body["fullname"])
	assert.NotEmpty(t, body["access_token"])

	// the federated account has no password to sign in with
	status, _, body = ts.post(t, "/signin", map[string]any{"email": "gina@gmail.com", "password": "Abcde1f"}, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Account was created using google. Try logging in with google.", body["error"])

	status, _, body = ts.post(t, "/google-auth", map[string]any{"access_token": "bad-token"}, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to authenticate you with google. Try with some other google account", body["error"])

	verifier.AssertExpectations(t)
}

func validBlog() map[string]any {
	return map[string]any{
		"title":  "Hello, World!",
		"banner": "https://cdn.example.com/banner.png",
		"des":    "A first post",
		"content": map[string]any{
			"time":    1700000000000,
			"version": "2.28.2",
			"blocks": []any{
				map[string]any{"id": "a1", "type": "paragraph", "data": map[string]any{"text": "Hi <b>there</b>"}},
			},
		},
		"tags":  []string{"Go", "Web"},
		"draft": false,
	}
}

func TestCreateBlogHandler(t *testing.T) {
	app, db, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	body := signup(t, ts, "Jane Doe", "jane@x.com", "Abcde1f")
	token := body["access_token"].(string)

	t.Run("Unauthenticated", func(t *testing.T) {
		status, _, body := ts.post(t, "/create-blog", validBlog(), "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "No access token", body["error"])
	})

	t.Run("Invalid Token", func(t *testing.T) {
		status, _, body := ts.post(t, "/create-blog", validBlog(), "not-a-jwt")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Access token is invalid", body["error"])
	})

	t.Run("Unknown Author", func(t *testing.T) {
		status, _, body := ts.post(t, "/create-blog", validBlog(), issueToken(t, uuid.New()))
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Author does not exist", body["error"])
	})

	t.Run("Description Too Long", func(t *testing.T) {
		blog := validBlog()
		blog["des"] = strings.Repeat("a", 201)

		status, _, body := ts.post(t, "/create-blog", blog, token)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "You must provide blog description under 200 characters", body["error"])
	})

	t.Run("Missing Tags", func(t *testing.T) {
		blog := validBlog()
		blog["tags"] = []string{}

		status, _, body := ts.post(t, "/create-blog", blog, token)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Provide tags in order to publish the blog, Maximum 10", body["error"])
	})

	t.Run("Draft With Only A Title", func(t *testing.T) {
		status, _, body := ts.post(t, "/create-blog", map[string]any{"title": "Later", "draft": true}, token)
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["id"])
	})

	var ids []string
	for i := 0; i < 3; i++ {
		status, _, body := ts.post(t, "/create-blog", validBlog(), token)
		require.Equal(t, http.StatusOK, status, body)
		id := body["id"].(string)
		assert.Regexp(t, regexp.MustCompile(`^Hello-World-[A-Za-z0-9_-]{21}$`), id)
		ids = append(ids, id)
	}
	assert.NotEqual(t, ids[0], ids[1])

	var totalPosts int
	var blogs []string
	err := db.QueryRowContext(context.Background(), "SELECT total_posts, blogs FROM users WHERE email = $1", "jane@x.com").
		Scan(&totalPosts, pq.Array(&blogs))
	require.NoError(t, err)
	assert.Equal(t, 3, totalPosts)
	assert.Len(t, blogs, 4)

	var tags []string
	err = db.QueryRow("SELECT tags FROM blogs WHERE blog_id = $1", ids[0]).Scan(pq.Array(&tags))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, tags)
}

func TestLatestBlogsHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/latest-blogs", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"blogs":[]}`, body.JSON())

	session := signup(t, ts, "Jane Doe", "jane@x.com", "Abcde1f")
	token := session["access_token"].(string)

	var last string
	for i := 0; i < 6; i++ {
		status, _, body := ts.post(t, "/create-blog", validBlog(), token)
		require.Equal(t, http.StatusOK, status, body)
		last = body["id"].(string)
	}

	status, _, body = ts.get(t, "/latest-blogs", "")
	require.Equal(t, http.StatusOK, status)

	blogs, ok := body["blogs"].([]any)
	require.True(t, ok)
	require.Len(t, blogs, 5)

	first := blogs[0].(map[string]any)
	assert.Equal(t, last, first["blog_id"])
	assert.Equal(t, "Hello, World!", first["title"])
	assert.NotEmpty(t, first["publishedAt"])

	author := first["author"].(map[string]any)["personal_info"].(map[string]any)
	assert.Equal(t, "jane", author["username"])
	assert.Equal(t, "Jane Doe", author["fullname"])

	activity := first["activity"].(map[string]any)
	assert.Equal(t, float64(0), activity["total_likes"])
}

func TestHealthcheckHandler(t *testing.T) {
	app := newUnitApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"available","system_info":{"environment":"testing","version":"test"}}`, body.JSON())
}

func TestNotFound(t *testing.T) {
	app := newUnitApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "resource not found", body["error"])
}

func TestErrorResponseHidesInternalErrors(t *testing.T) {
	app := newUnitApplication(t)
	ts := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.errorResponse(w, r, errors.New("pq: connection refused"))
	}))

	status, _, body := ts.get(t, "/", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, internalErrorMessage, body["error"])
}

func TestPublicRoutesIgnoreStaleToken(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	const stale = "stale.token.value"

	status, _, body := ts.post(t, "/signup", map[string]any{
		"fullName": "Jane Doe",
		"email":    "jane@x.com",
		"password": "Abcde1f",
	}, stale)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "jane", body["username"])

	status, _, body = ts.post(t, "/signin", map[string]any{"email": "jane@x.com", "password": "Abcde1f"}, stale)
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["access_token"])

	status, _, body = ts.get(t, "/latest-blogs", stale)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"blogs":[]}`, body.JSON())

	status, _, _ = ts.get(t, "/healthcheck", stale)
	assert.Equal(t, http.StatusOK, status)

	// the protected route still rejects it
	status, _, body = ts.post(t, "/create-blog", validBlog(), stale)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access token is invalid", body["error"])
}
