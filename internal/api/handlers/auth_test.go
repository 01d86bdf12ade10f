package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndSignin(t *testing.T) {
	e := newEnv(t)

	cookie, user := e.signupAndSignin(t, "alice", "alice@x.com", "pw123456")

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@x.com", user["email"])
	// The password hash must never reach a client.
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)
}

func TestSignupRejectsDuplicates(t *testing.T) {
	e := newEnv(t)

	e.signupAndSignin(t, "alice", "alice@x.com", "pw123456")

	rec := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice2",
		"email":    "alice@x.com",
		"password": "pw123456",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice2@x.com",
		"password": "pw123456",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupValidatesInput(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "not-an-email",
		"password": "pw123456",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "pw",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(http.StatusBadRequest), body["statusCode"])
}

func TestSigninFailures(t *testing.T) {
	e := newEnv(t)

	e.signupAndSignin(t, "alice", "alice@x.com", "pw123456")

	rec := e.do(t, http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    "nobody@x.com",
		"password": "pw123456",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    "alice@x.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleSignInProvisionsNewUser(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/google", map[string]string{
		"email": "jane@x.com",
		"name":  "Jane Doe",
		"photo": "https://img.example.com/jane.jpg",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sessionCookie(t, rec)
	user := decodeBody(t, rec)
	username, _ := user["username"].(string)
	assert.True(t, strings.HasPrefix(username, "janedoe"), "username %q should derive from the display name", username)
	assert.Greater(t, len(username), len("janedoe"))
	assert.Equal(t, "https://img.example.com/jane.jpg", user["avatar"])

	// Second call with the same email signs in the existing account.
	rec = e.do(t, http.MethodPost, "/api/auth/google", map[string]string{
		"email": "jane@x.com",
		"name":  "Jane Doe",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	again := decodeBody(t, rec)
	assert.Equal(t, user["id"], again["id"])
}

func TestGoogleSignInExistingPasswordAccount(t *testing.T) {
	e := newEnv(t)

	_, user := e.signupAndSignin(t, "alice", "alice@x.com", "pw123456")

	rec := e.do(t, http.MethodPost, "/api/auth/google", map[string]string{
		"email": "alice@x.com",
		"name":  "Alice Example",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	federated := decodeBody(t, rec)
	assert.Equal(t, user["id"], federated["id"])
	assert.Equal(t, "alice", federated["username"])
}

func TestSignOutClearsCookie(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/signout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/listing/create", validListingBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/listing/create", validListingBody(),
		&http.Cookie{Name: "access_token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerTokenAccepted(t *testing.T) {
	e := newEnv(t)

	cookie, _ := e.signupAndSignin(t, "alice", "alice@x.com", "pw123456")

	req := e.do(t, http.MethodPost, "/api/listing/create", validListingBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, req.Code)

	rec := e.doWithBearer(t, http.MethodPost, "/api/listing/create", validListingBody(), cookie.Value)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
