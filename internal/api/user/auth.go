package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rriley/picoCTF/internal/api"
	"github.com/rriley/picoCTF/internal/auth"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/database/models"
	"github.com/rriley/picoCTF/internal/util"
	"go.uber.org/zap"
)

// authenticatedCaller resolves a raw token into a Caller, for routes that
// sit outside the auth middleware but still personalize their response.
func (h *Handler) authenticatedCaller(tokenString string) (api.Caller, error) {
	claims, err := auth.ValidateJWT(tokenString, h.cfg.Auth.JWT.Secret)
	if err != nil {
		return api.Caller{}, err
	}
	u, err := database.GetUserByID(h.db, claims.Subject)
	if err != nil {
		return api.Caller{}, err
	}
	return api.Caller{UID: u.ID, TID: u.TeamID, IsAdmin: u.IsAdmin, IsTeacher: u.IsTeacher}, nil
}

func (h *Handler) getAuthStatus(c *gin.Context) {
	var caller api.Caller
	if tokenString := c.Query("token"); tokenString != "" {
		if resolved, err := h.authenticatedCaller(tokenString); err == nil {
			caller = resolved
		}
	}

	util.Success(c, gin.H{
		"logged_in": caller.UID != "",
		"admin":     caller.IsAdmin,
		"teacher":   caller.IsTeacher,
	}, "Auth status retrieved")
}

func (h *Handler) register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	_, err := database.GetUserByUsername(h.db, req.Username)
	if !errors.Is(err, database.ErrNotFound) {
		if err == nil {
			util.Error(c, http.StatusConflict, "username already exists")
		} else {
			util.Error(c, http.StatusInternalServerError, "database error")
		}
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	newUser := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
	}
	if err := database.CreateUser(h.db, &newUser); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	zap.S().Infof("new user registered: %s", newUser.Username)
	util.Success(c, gin.H{"id": newUser.ID, "username": newUser.Username}, "User registered successfully")
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	user, err := database.GetUserByUsername(h.db, req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.Error(c, http.StatusUnauthorized, "invalid username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "database error")
		}
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	jwtToken, err := auth.GenerateJWT(user.ID, h.cfg.Auth.JWT.Secret, h.cfg.Auth.JWT.ExpireHours)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to generate JWT")
		return
	}
	util.Success(c, gin.H{"token": jwtToken}, "Login successful")
}
