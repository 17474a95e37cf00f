package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/planwise/planwise/config"
	"github.com/planwise/planwise/middleware"
	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

const (
	providerGitHub = "github"
	providerGoogle = "google"

	oauthStateTTL = 10 * time.Minute
)

var (
	errOAuthNotConfigured = errors.New("oauth provider not configured")
	errUnknownProvider    = errors.New("unsupported oauth provider")
)

// AuthController handles local and third-party sign-in.
type AuthController struct {
	users UserStore
}

func NewAuthController(users UserStore) *AuthController {
	return &AuthController{users: users}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"full_name" binding:"max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a local account and signs it in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := utils.SanitizePlain(req.Username)
	if len(username) < 3 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be at least 3 characters")
		return
	}

	c := ctx.Request.Context()
	if _, err := a.users.FindUserByEmail(c, email); err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.Sugar.Errorf("register lookup email: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to register")
		return
	}
	taken, err := a.users.UsernameTaken(c, username)
	if err != nil {
		utils.Sugar.Errorf("register lookup username: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to register")
		return
	}
	if taken {
		utils.Error(ctx, http.StatusBadRequest, 40004, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}
	user := models.NewUser(email, username, utils.SanitizePlain(req.FullName))
	user.PasswordHash = hash
	if err := a.users.CreateUser(c, &user); err != nil {
		utils.Sugar.Errorf("register create: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to register")
		return
	}

	token, ok := issueToken(ctx, user.ID)
	if !ok {
		return
	}
	utils.Created(ctx, tokenResponse(token, &user))
}

// Login exchanges email and password for an access token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	user, err := a.users.FindUserByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.Sugar.Errorf("login lookup: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to login")
		return
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "incorrect email or password")
		return
	}

	token, ok := issueToken(ctx, user.ID)
	if !ok {
		return
	}
	utils.Success(ctx, tokenResponse(token, user))
}

// Logout revokes the presented bearer token until it would have expired anyway.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, ok := ctx.Get(middleware.ContextClaimsKey)
	if token == "" || !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "unauthorized")
		return
	}
	expiresAt := utils.TokenExpiry(claims.(*utils.Claims))
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Duration(config.Get().TokenTTLMin) * time.Minute)
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// OAuthRedirect sends the browser to the provider's consent page.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	cfg, ok := providerConfig(ctx)
	if !ok {
		return
	}
	state := uuid.NewString()
	utils.SaveState(state, oauthStateTTL)
	ctx.Redirect(http.StatusFound, cfg.AuthCodeURL(state))
}

// OAuthCallback completes the code exchange, finds or creates the account by email and
// hands the token to the frontend.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	cfg, ok := providerConfig(ctx)
	if !ok {
		return
	}
	code, state := ctx.Query("code"), ctx.Query("state")
	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40005, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid or expired state")
		return
	}

	c, cancel := context.WithTimeout(ctx.Request.Context(), 15*time.Second)
	defer cancel()
	token, err := cfg.Exchange(c, code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40007, "failed to exchange code")
		return
	}

	provider := strings.ToLower(ctx.Param("provider"))
	info, err := fetchOAuthUser(c, provider, cfg.Client(c, token))
	if err != nil {
		utils.Sugar.Warnf("oauth %s profile: %v", provider, err)
		utils.Error(ctx, http.StatusBadRequest, 40008, "failed to read provider profile")
		return
	}
	if info.Email == "" {
		utils.Error(ctx, http.StatusBadRequest, 40009, "email not available from provider")
		return
	}

	user, err := a.findOrCreateOAuthUser(c, provider, info)
	if err != nil {
		utils.Sugar.Errorf("oauth persist user: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to persist user")
		return
	}

	jwtToken, ok := issueToken(ctx, user.ID)
	if !ok {
		return
	}
	q := url.Values{}
	q.Set("token", jwtToken)
	q.Set("user", user.ID)
	ctx.Redirect(http.StatusFound, strings.TrimRight(config.Get().FrontendURL, "/")+"/oauth-callback?"+q.Encode())
}

func issueToken(ctx *gin.Context, userID string) (string, bool) {
	ttl := time.Duration(config.Get().TokenTTLMin) * time.Minute
	token, err := utils.GenerateToken(userID, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return "", false
	}
	return token, true
}

func tokenResponse(token string, user *models.User) gin.H {
	return gin.H{"access_token": token, "token_type": "bearer", "user": user}
}

func providerConfig(ctx *gin.Context) (*oauth2.Config, bool) {
	cfg, err := oauthConfig(ctx.Param("provider"))
	switch {
	case errors.Is(err, errOAuthNotConfigured):
		utils.Error(ctx, http.StatusNotImplemented, 50100, err.Error())
		return nil, false
	case err != nil:
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
		return nil, false
	}
	return cfg, true
}

func oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	base := strings.TrimRight(cfg.OAuthRedirectBase, "/")
	switch strings.ToLower(provider) {
	case providerGitHub:
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			return nil, errOAuthNotConfigured
		}
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  base + "/api/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		}, nil
	case providerGoogle:
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, errOAuthNotConfigured
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  base + "/api/auth/google/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownProvider, provider)
	}
}

type oauthUser struct {
	ID       string
	Login    string
	Name     string
	Email    string
	Bio      string
	Provider string
}

var (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
	googleUserURL   = "https://openidconnect.googleapis.com/v1/userinfo"
)

func fetchOAuthUser(ctx context.Context, provider string, client *http.Client) (*oauthUser, error) {
	switch provider {
	case providerGitHub:
		return fetchGitHubUser(ctx, client)
	case providerGoogle:
		return fetchGoogleUser(ctx, client)
	}
	return nil, errUnknownProvider
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", endpoint, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func fetchGitHubUser(ctx context.Context, client *http.Client) (*oauthUser, error) {
	var profile struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Bio   string `json:"bio"`
	}
	if err := getJSON(ctx, client, githubUserURL, &profile); err != nil {
		return nil, err
	}

	// the profile email is empty when the user keeps it private
	email := profile.Email
	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := getJSON(ctx, client, githubEmailsURL, &emails); err == nil {
		for _, e := range emails {
			if e.Primary {
				email = e.Email
				break
			}
		}
	}

	return &oauthUser{
		ID:       fmt.Sprintf("%d", profile.ID),
		Login:    profile.Login,
		Name:     firstNonEmpty(profile.Name, profile.Login),
		Email:    email,
		Bio:      profile.Bio,
		Provider: providerGitHub,
	}, nil
}

func fetchGoogleUser(ctx context.Context, client *http.Client) (*oauthUser, error) {
	var profile struct {
		Sub       string `json:"sub"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		GivenName string `json:"given_name"`
	}
	if err := getJSON(ctx, client, googleUserURL, &profile); err != nil {
		return nil, err
	}
	return &oauthUser{
		ID:       profile.Sub,
		Name:     firstNonEmpty(profile.Name, profile.GivenName),
		Email:    profile.Email,
		Provider: providerGoogle,
	}, nil
}

func (a *AuthController) findOrCreateOAuthUser(ctx context.Context, provider string, info *oauthUser) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))
	existing, err := a.users.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	username, err := a.uniqueUsername(ctx, info, email)
	if err != nil {
		return nil, err
	}
	user := models.NewUser(email, username, utils.SanitizePlain(info.Name))
	user.Bio = utils.SanitizeRich(info.Bio)
	user.OAuthProvider = provider
	user.OAuthID = info.ID
	if err := a.users.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// uniqueUsername prefers the provider login, then the email local part with a random suffix.
func (a *AuthController) uniqueUsername(ctx context.Context, info *oauthUser, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	candidates := []string{}
	if info.Login != "" {
		candidates = append(candidates, info.Login)
	}
	for i := 0; i < 5; i++ {
		candidates = append(candidates, base+"_"+uuid.NewString()[:6])
	}
	for _, c := range candidates {
		taken, err := a.users.UsernameTaken(ctx, c)
		if err != nil {
			return "", err
		}
		if !taken {
			return c, nil
		}
	}
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", ""), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
