package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/dtos"
	"github.com/justsurfingit/jobx/internal/middleware"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
)

type AuthHandler struct {
	auth         *services.AuthService
	files        Uploads
	cookieSecure bool
	log          *slog.Logger
}

func NewAuthHandler(auth *services.AuthService, files Uploads, cookieSecure bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, files: files, cookieSecure: cookieSecure, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	if _, err := h.auth.Register(c.Request.Context(), services.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Registration successful. Please check your email for the verification code.", nil)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dtos.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Email verified successfully", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setToken(c, session.Token, int(time.Until(session.ExpiresAt).Seconds()))
	respond(c, http.StatusOK, "User logged in successfully", gin.H{"user": session.User})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setToken(c, "", -1)
	respond(c, http.StatusOK, "User logged out successfully", nil)
}

// setToken writes the session cookie. Secure cookies are sent cross-site so
// the SPA can live on another origin.
func (h *AuthHandler) setToken(c *gin.Context, token string, maxAge int) {
	if h.cookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dtos.ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	image, err := optionalUpload(c, h.files, "profileImage", storage.Image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), userID(c), services.ProfileInput{Name: req.Name, Email: req.Email, Image: image})
	if err != nil {
		discardUpload(h.files, h.log, image)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dtos.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), userID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Password updated successfully", nil)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"users": users})
}

func (h *AuthHandler) UserStats(c *gin.Context) {
	total, err := h.auth.CountUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"total": total})
}

func (h *AuthHandler) UpdateRole(c *gin.Context) {
	var req dtos.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	user, err := h.auth.UpdateRole(c.Request.Context(), req.UserID, req.NewRole)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "User role updated successfully", gin.H{"user": user})
}
