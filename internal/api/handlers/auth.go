package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/estate-ease/api/internal/api/services"
	"github.com/estate-ease/api/internal/auth"
	"github.com/estate-ease/api/internal/models"
	"github.com/estate-ease/api/internal/repositories"
	"github.com/estate-ease/api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 6

type AuthHandler struct {
	Users  *repositories.UserRepository
	Tokens *auth.TokenIssuer
	OAuth  *services.GoogleOAuth
	Log    *zap.Logger
	// Prod switches cookie flags to cross-site mode behind HTTPS.
	Prod bool
	// ClientBaseURL is where browser OAuth flows are redirected back to.
	ClientBaseURL string
}

// POST /api/auth/signup
// Signup godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Username == "" {
		utils.JSONError(w, http.StatusBadRequest, "Username is required")
		return
	}
	if !emailPattern.MatchString(input.Email) {
		utils.JSONError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(input.Password) < minPasswordLength {
		utils.JSONError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
	}

	switch err := h.Users.Create(r.Context(), &user); err {
	case nil:
	case repositories.ErrDuplicate:
		utils.JSONError(w, http.StatusConflict, "Email or username is already taken")
		return
	default:
		h.Log.Error("create user", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User created successfully",
	})
}

// POST /api/auth/signin
// Signin godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/auth/signin [post]
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || input.Email == "" || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), input.Email)
	switch err {
	case nil:
	case repositories.ErrNotFound:
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	default:
		h.Log.Error("find user", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Wrong credentials")
		return
	}

	if !h.issueSession(w, user) {
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// POST /api/auth/google
// GoogleSignIn godoc
// @Summary Federated sign-in with a Google profile
// @Description Signs in the user for the given email, provisioning an account on first contact.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorBody
// @Router /api/auth/google [post]
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Photo string `json:"photo"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// The identity provider is trusted to have verified this email; no
	// password check happens on this path.
	user, err := h.federatedSignIn(r.Context(), input.Email, input.Name, input.Photo)
	if err != nil {
		h.Log.Error("federated sign-in", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !h.issueSession(w, user) {
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// GET /api/auth/google/login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := services.GenerateState(map[string]string{"flow": "login"})
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to generate OAuth state")
		return
	}
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if _, err := services.DecodeState(r.FormValue("state")); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	googleUser, err := h.OAuth.FetchUser(r.Context(), r.FormValue("code"))
	if err != nil {
		h.Log.Error("google callback", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Google sign-in failed")
		return
	}

	user, err := h.federatedSignIn(r.Context(), googleUser.Email, googleUser.Name, googleUser.Picture)
	if err != nil {
		h.Log.Error("federated sign-in", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !h.issueSession(w, user) {
		return
	}
	http.Redirect(w, r, h.ClientBaseURL+"?status=signed_in", http.StatusTemporaryRedirect)
}

// POST /api/auth/signout
// SignOut godoc
// @Summary Clear the session cookie
// @Description The token itself stays valid until expiry; sign-out only removes the client cookie.
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sameSite := http.SameSiteLaxMode
	if h.Prod {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.Prod,
		HttpOnly: true,
		SameSite: sameSite,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User has been signed out",
	})
}

// federatedSignIn returns the user for the given email, provisioning one
// with a derived username and an unusable random password when no
// account exists yet.
func (h *AuthHandler) federatedSignIn(ctx context.Context, email, name, photo string) (*models.User, error) {
	user, err := h.Users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if err != repositories.ErrNotFound {
		return nil, err
	}

	suffix, err := utils.RandomSuffix(4)
	if err != nil {
		return nil, err
	}
	username := strings.ToLower(strings.ReplaceAll(name, " ", "")) + suffix
	if username == suffix {
		username = "user" + suffix
	}

	// Placeholder credential: random, hashed, never disclosed, so the
	// account cannot be entered through password sign-in.
	placeholder, err := utils.GenerateSecureToken(16)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(placeholder), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Avatar:   photo,
	}
	if err := h.Users.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// issueSession signs a token for the user and sets the session cookie.
// Reports false after writing an error response.
func (h *AuthHandler) issueSession(w http.ResponseWriter, user *models.User) bool {
	token, expiresAt, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.Log.Error("issue token", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create token")
		return false
	}

	sameSite := http.SameSiteLaxMode
	if h.Prod {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   h.Prod,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return true
}
