package integrationtests

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/fakeapi"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
	"github.com/ishtiakalhumaidi/bidstock-client/services/accounts"
	"github.com/ishtiakalhumaidi/bidstock-client/services/auctions"
	"github.com/ishtiakalhumaidi/bidstock-client/services/inventory"
	"github.com/ishtiakalhumaidi/bidstock-client/services/rentals"
	"github.com/ishtiakalhumaidi/bidstock-client/services/transactions"
)

// newTestBackend starts the mock API over HTTP for the duration of the test.
func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := fakeapi.NewServer("integration-secret")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// clientStack is one fully wired client, with its own session and cache.
// Tests spin up one stack per signed-in user so each behaves like a separate
// browser against the shared backend.
type clientStack struct {
	Session *session.Store
	Cache   *querycache.Cache

	Accounts     *accounts.Service
	Auctions     *auctions.Service
	Rentals      *rentals.Service
	Inventory    *inventory.Service
	Transactions *transactions.Service
}

func newClientStack(t *testing.T, baseURL string) *clientStack {
	t.Helper()
	return newClientStackAt(t, baseURL, filepath.Join(t.TempDir(), "session.json"))
}

// newClientStackAt pins the session state file, so tests can restart a stack
// against the same persisted session.
func newClientStackAt(t *testing.T, baseURL, statePath string) *clientStack {
	t.Helper()

	sess := session.NewStore(statePath)
	api := apiclient.New(baseURL, sess, apiclient.Options{Timeout: 5 * time.Second})
	cache := querycache.New()
	d := dispatcher.New(cache)

	return &clientStack{
		Session:      sess,
		Cache:        cache,
		Accounts:     accounts.NewService(api, cache, d, sess),
		Auctions:     auctions.NewService(api, cache, d, sess),
		Rentals:      rentals.NewService(api, cache, d, sess),
		Inventory:    inventory.NewService(api, cache, d, sess),
		Transactions: transactions.NewService(api, cache, d, sess),
	}
}

// signUpStack registers a fresh account on its own client stack.
func signUpStack(t *testing.T, baseURL, name, email, role string) *clientStack {
	t.Helper()

	stack := newClientStack(t, baseURL)
	user, err := stack.Accounts.SignUp(context.Background(), accounts.SignupInput{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.UserID)
	require.True(t, stack.Session.IsAuthenticated())
	return stack
}
