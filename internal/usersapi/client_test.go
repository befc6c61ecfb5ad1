package usersapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userlookup/internal/usersapi"
)

func TestClient_FetchUser_Success(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":"42","name":"Ann"}`))
	}))
	defer srv.Close()

	client := usersapi.New(srv.Client(), srv.URL+"/")

	resp, err := client.FetchUser(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"userId":"42","name":"Ann"}`, string(resp.Body))

	require.NotNil(t, gotReq)
	assert.Equal(t, http.MethodGet, gotReq.Method)
	assert.Equal(t, "/Prod/users", gotReq.URL.Path)
	assert.Equal(t, "42", gotReq.URL.Query().Get("userId"))
	assert.Empty(t, gotReq.Header.Get("Authorization"))
	assert.Empty(t, gotReq.Header.Get("Content-Type"))
}

func TestClient_FetchUser_EscapesIdentifier(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := usersapi.New(srv.Client(), srv.URL)

	_, err := client.FetchUser(context.Background(), "a&b=c d")
	require.NoError(t, err)
	assert.Equal(t, "userId=a%26b%3Dc+d", rawQuery)
}

func TestClient_FetchUser_NonSuccessStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"User not found"}`))
	}))
	defer srv.Close()

	client := usersapi.New(srv.Client(), srv.URL)

	resp, err := client.FetchUser(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.False(t, resp.OK())
}

func TestClient_FetchUser_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>Bad Gateway</html>`))
	}))
	defer srv.Close()

	client := usersapi.New(srv.Client(), srv.URL)

	resp, err := client.FetchUser(context.Background(), "42")
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usersapi.ErrDecode))
	assert.False(t, errors.Is(err, usersapi.ErrTransport))

	var decErr *usersapi.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, http.StatusBadGateway, decErr.Status)
	assert.Equal(t, "<html>Bad Gateway</html>", string(decErr.Body))
}

func TestClient_FetchUser_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := usersapi.New(nil, url)

	resp, err := client.FetchUser(context.Background(), "42")
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usersapi.ErrTransport))
	assert.False(t, errors.Is(err, usersapi.ErrDecode))

	var trErr *usersapi.TransportError
	require.True(t, errors.As(err, &trErr))
	assert.Contains(t, trErr.URL, "/Prod/users?userId=42")
}

func TestClient_URL_Default(t *testing.T) {
	client := usersapi.New(nil, "")
	assert.Equal(t,
		"https://ub5izr40ze.execute-api.us-east-1.amazonaws.com/Prod/users?userId=42",
		client.URL("42"))
}
