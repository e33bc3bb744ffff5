package main

import (
	"errors"
	"net/http"

	"github.com/Beka01247/smart-stock/internal/auth"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// loginHandler godoc
//
//	@Summary		Sign in
//	@Description	Exchanges email and password for an ID token
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	auth.Session
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		429		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/auth/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.authenticator.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRateLimited):
			app.logger.Warnw("sign in rate limited", "email", req.Email)
			writeJSONError(w, http.StatusTooManyRequests, auth.Message(err))
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrWrongCredential):
			app.unauthorizedResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, session); err != nil {
		app.internalServerError(w, r, err)
	}
}

// currentUserHandler godoc
//
//	@Summary		Current user
//	@Tags			authentication
//	@Produce		json
//	@Success		200	{object}	auth.User
//	@Failure		401	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/auth/me [get]
func (app *application) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		app.unauthorizedResponse(w, r, auth.ErrMissingToken)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}
