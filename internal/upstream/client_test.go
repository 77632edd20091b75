package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

type staticTokens struct {
	cred models.Credential
}

func (s *staticTokens) Credential() models.Credential { return s.cred }

func TestClientReadsTokenAtCallTime(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tokens := &staticTokens{cred: models.Credential{Token: "first"}}
	client := New(srv.URL, time.Second, tokens, zap.NewNop())

	_, err := client.ListStudents(context.Background(), StudentListParams{})
	require.NoError(t, err)

	// token refreshed elsewhere: the next request must carry the new one
	tokens.cred = models.Credential{Token: "second"}
	_, err = client.ListStudents(context.Background(), StudentListParams{})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, "Bearer first", seen[0])
	assert.Equal(t, "Bearer second", seen[1])
}

func TestClientMissingTokenFailsBeforeNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, &staticTokens{}, zap.NewNop())
	_, err := client.ListStudents(context.Background(), StudentListParams{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTokenMissing.Code, appErrors.FromError(err).Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestClientExpiredTokenIsAuthError(t *testing.T) {
	client := New("http://unreachable.invalid", time.Second, &staticTokens{
		cred: models.Credential{Token: "tok", Expiry: time.Now().Add(-time.Minute)},
	}, zap.NewNop())

	_, err := client.DashboardStats(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsAuth(err))
}

func TestClientPrefersStructuredDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"dependent records exist"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, &staticTokens{cred: models.Credential{Token: "tok"}}, zap.NewNop())
	err := client.DeleteExpense(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, "dependent records exist", appErrors.FromError(err).Message)
}

func TestClientMapsUnauthorizedDistinctly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token expired"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, &staticTokens{cred: models.Credential{Token: "tok"}}, zap.NewNop())
	_, err := client.ListInsights(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	assert.Equal(t, "token expired", appErr.Message)
	assert.True(t, appErrors.IsAuth(err))
}

func TestClientTransportFailureIsUnreachable(t *testing.T) {
	client := New("http://127.0.0.1:1", 200*time.Millisecond, &staticTokens{cred: models.Credential{Token: "tok"}}, zap.NewNop())
	_, err := client.ListStaff(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstreamUnreachable.Code, appErrors.FromError(err).Code)
}

func TestClientLoginPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "admin@escola.pt", r.PostFormValue("username"))
		assert.Equal(t, "secret", r.PostFormValue("password"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, zap.NewNop())
	token, err := client.Login(context.Background(), models.LoginRequest{Username: "admin@escola.pt", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", token.AccessToken)
}

func TestClientLoginRejectionKeepsDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, zap.NewNop())
	_, err := client.Login(context.Background(), models.LoginRequest{Username: "x", Password: "y"})
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", appErrors.FromError(err).Message)
}
