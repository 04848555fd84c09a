package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

const testSecret = "test-secret-access-key"

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func (e envelope) JSON() string {
	js, err := json.Marshal(e)
	if err != nil {
		return ""
	}

	return string(js)
}

func testConfig() *Config {
	return &Config{
		Environment:        "testing",
		Version:            "test",
		TrustedOrigins:     []string{"http://localhost:5173"},
		LinkGoogleAccounts: true,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokens(t *testing.T) *userservice.TokenIssuer {
	tokens, err := userservice.NewTokenIssuer(testSecret)
	require.NoError(t, err)
	return tokens
}

// newUnitApplication builds an application without a database. Only token handling works.
func newUnitApplication(t *testing.T) *application {
	logger := testLogger()

	return &application{
		config: testConfig(),
		logger: logger,
		userService: userservice.NewUserService(userservice.Config{
			Tokens: testTokens(t),
			Logger: logger,
		}),
		blogService: blogservice.NewBlogService(nil, nil, logger),
	}
}

// newTestApplication builds an application over a migrated Postgres container and a mocked Google verifier.
func newTestApplication(t *testing.T) (*application, *sql.DB, *userservice.MockVerifier) {
	db := common.TestDB("file://../migrations", t)
	logger := testLogger()
	verifier := new(userservice.MockVerifier)

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM blogs")
		require.NoError(t, err)
		_, err = db.Exec("DELETE FROM users")
		require.NoError(t, err)
	})

	userModel := userservice.NewUserModel(db)
	cfg := testConfig()

	app := &application{
		config: cfg,
		logger: logger,
		userService: userservice.NewUserService(userservice.Config{
			Model:              userModel,
			Tokens:             testTokens(t),
			Verifier:           verifier,
			Logger:             logger,
			LinkGoogleAccounts: cfg.LinkGoogleAccounts,
		}),
		blogService: blogservice.NewBlogService(
			blogservice.NewBlogModel(db, userModel),
			common.NewMemoryCache(time.Minute, 2*time.Minute),
			logger,
		),
	}

	return app, db, verifier
}

func issueToken(t *testing.T, id uuid.UUID) string {
	token, err := testTokens(t).Issue(id)
	require.NoError(t, err)
	return token
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatalf("could not decode %q: %v", responseBody, err)
	}

	return res.StatusCode, res.Header, envelope
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader, token string) (int, http.Header, envelope) {
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) post(t *testing.T, path string, data any, token string) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	return ts.do(t, http.MethodPost, path, bytes.NewReader(jsonPayload), token)
}

func (ts *testServer) get(t *testing.T, path string, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, nil, token)
}
