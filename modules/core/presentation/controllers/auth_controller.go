package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/northstarhq/northstar/modules/core/services"
	"github.com/northstarhq/northstar/pkg/application"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/configuration"
	"github.com/northstarhq/northstar/pkg/constants"
	"github.com/northstarhq/northstar/pkg/httpapi"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type AuthController struct {
	app         application.Application
	authService *services.AuthService
	userService *services.UserService
	basePath    string
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:         app,
		authService: app.Service(services.AuthService{}).(*services.AuthService),
		userService: app.Service(services.UserService{}).(*services.UserService),
		basePath:    "/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/sign-up", c.signUp).Methods(http.MethodPost)
	router.HandleFunc("/sign-in", c.signIn).Methods(http.MethodPost)
	router.HandleFunc("/otp/verify", c.verifyOtp).Methods(http.MethodPost)
	router.HandleFunc("/sign-out", c.signOut).Methods(http.MethodPost)
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (c *AuthController) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid request body"))
		return
	}
	if err := constants.Validate.Struct(req); err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation(err.Error()))
		return
	}

	u, err := c.userService.Register(r.Context(), req.Email, req.Phone, req.Password)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":    u.ID().String(),
		"email": u.Email(),
	})
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid request body"))
		return
	}
	if err := constants.Validate.Struct(req); err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation(err.Error()))
		return
	}

	result, err := c.authService.SignIn(r.Context(), req.Email, req.Password, c.deviceToken(r, req.Email))
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}

	if result.RequiresOtp {
		_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
			"principalId": result.PrincipalID.String(),
			"otpRequired": true,
		})
		return
	}

	c.setSessionCookie(w, result.Session.Token)
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"principalId": result.PrincipalID.String(),
		"otpRequired": false,
	})
}

type verifyOtpRequest struct {
	PrincipalID    string `json:"principalId" validate:"required,uuid"`
	Code           string `json:"code" validate:"required,len=6"`
	RememberDevice bool   `json:"rememberDevice"`
}

func (c *AuthController) verifyOtp(w http.ResponseWriter, r *http.Request) {
	var req verifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid request body"))
		return
	}
	if err := constants.Validate.Struct(req); err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation(err.Error()))
		return
	}
	principalID, err := uuid.Parse(req.PrincipalID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid principal id"))
		return
	}

	result, err := c.authService.VerifyOtp(r.Context(), principalID, req.Code, req.RememberDevice)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}

	c.setSessionCookie(w, result.Session.Token)
	if result.DeviceToken != "" {
		deviceTrust := c.authService.DeviceTrust()
		http.SetCookie(w, deviceTrust.Cookie(principalID, result.DeviceToken, result.DeviceExpiresAt))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"principalId": principalID.String(),
	})
}

func (c *AuthController) signOut(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	if cookie, err := r.Cookie(conf.SidCookieKey); err == nil {
		if err := c.authService.Logout(r.Context(), cookie.Value); err != nil {
			composables.UseLogger(r.Context()).WithError(err).Warn("failed to delete session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// deviceToken looks up the trusted-device cookie for the principal behind the
// given email. The cookie name embeds the principal id, so an unknown email
// simply yields no token and the regular step-up path applies.
func (c *AuthController) deviceToken(r *http.Request, email string) string {
	u, err := c.userService.GetByEmail(r.Context(), email)
	if err != nil {
		return ""
	}
	cookie, err := r.Cookie(c.authService.DeviceTrust().CookieName(u.ID()))
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *AuthController) setSessionCookie(w http.ResponseWriter, token string) {
	conf := configuration.Use()
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(conf.SessionDuration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.GoAppEnvironment == configuration.Production,
	})
}
