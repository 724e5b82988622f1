package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/response"

	"github.com/gin-gonic/gin"
)

// TokenIssuer issues access tokens and verifies them back to a credential id.
type TokenIssuer interface {
	Generate(credentialID string) (string, error)
	Parse(token string) (string, error)
}

type AuthHandler struct {
	creds  repository.CredentialRepositoryInterface
	tokens TokenIssuer
}

func NewAuthHandler(creds repository.CredentialRepositoryInterface, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{creds: creds, tokens: tokens}
}

type SignupRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,password"`
}

type SigninRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	AccessToken string `json:"accessToken"`
}

// Signup godoc
// @Summary  Register a login
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    credentials body SignupRequest true "Login and password"
// @Success  201 {object} response.Envelope{data=AuthResponse}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Router   /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "AuthError", "Password could not be hashed")
		return
	}

	cred := &model.Credential{
		ID:           model.NewID(),
		Login:        req.Login,
		PasswordHash: hash,
	}
	cred.AccessToken, err = h.tokens.Generate(cred.ID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "AuthError", "Token could not be issued")
		return
	}

	if err := h.creds.Create(c.Request.Context(), cred); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			response.Error(c, http.StatusBadRequest, "DuplicateKeyError", "Login is already taken")
			return
		}
		storeError(c, err)
		return
	}

	response.OK(c, http.StatusCreated, AuthResponse{
		ID:          cred.ID,
		Login:       cred.Login,
		AccessToken: cred.AccessToken,
	})
}

// Signin godoc
// @Summary  Get the access token of a login
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    credentials body SigninRequest true "Login and password"
// @Success  200 {object} response.Envelope{data=AuthResponse}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Router   /signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cred, err := h.creds.FindByLogin(c.Request.Context(), req.Login)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NotFound", "Login not found")
		return
	}
	if err != nil {
		storeError(c, err)
		return
	}

	if !auth.CheckPassword(cred.PasswordHash, req.Password) {
		response.Error(c, http.StatusBadRequest, "AuthError", "Wrong password")
		return
	}

	// Tokens that expired or were signed with a rotated secret are replaced.
	if id, err := h.tokens.Parse(cred.AccessToken); err != nil || id != cred.ID {
		token, err := h.tokens.Generate(cred.ID)
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusBadRequest, "AuthError", "Token could not be issued")
			return
		}
		if err := h.creds.UpdateAccessToken(c.Request.Context(), cred.ID, token); err != nil {
			storeError(c, err)
			return
		}
		cred.AccessToken = token
	}

	response.OK(c, http.StatusOK, AuthResponse{
		ID:          cred.ID,
		Login:       cred.Login,
		AccessToken: cred.AccessToken,
	})
}
