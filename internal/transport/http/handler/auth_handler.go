package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-forum-api/internal/core/auth"
	"go-forum-api/internal/service"
	mdw "go-forum-api/internal/transport/http/middleware"
	resp "go-forum-api/internal/transport/http/response"
)

type AuthHandler struct {
	users  *service.UserService
	jwter  *auth.JWTer
	logger *zap.Logger
}

func NewAuthHandler(users *service.UserService, jwter *auth.JWTer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwter: jwter, logger: logger}
}

type signupIn struct {
	FullName string `json:"fullName" binding:"required,max=128"`
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var in signupIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	u, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		FullName: in.FullName,
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(gin.H{
		"message": "User created. Please check your email to verify your account.",
		"userId":  u.ID,
	}))
}

type signinIn struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var in signinIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	token, err := h.jwter.Issue(u.ID, u.Username, "user")
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	out := gin.H{"token": token, "user": u}
	if in.RememberMe {
		rmToken, err := h.users.IssueRememberMeToken(c.Request.Context(), u.ID)
		if err != nil {
			writeErr(c, h.logger, err)
			return
		}
		out["rememberMeToken"] = rmToken
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

type rememberIn struct {
	Token string `json:"token" binding:"required"`
}

// Remember 用 remember-me token 换新 JWT
func (h *AuthHandler) Remember(c *gin.Context) {
	var in rememberIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	u, err := h.users.AuthenticateByRememberMeToken(c.Request.Context(), in.Token)
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	token, err := h.jwter.Issue(u.ID, u.Username, "user")
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"token": token, "user": u}))
}

func (h *AuthHandler) Signout(c *gin.Context) {
	uid := c.GetUint(mdw.KeyUserID)
	if err := h.users.ClearRememberMeToken(c.Request.Context(), uid); err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"message": "signed out"}))
}

type verifyEmailIn struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var in verifyEmailIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "token is required"))
		return
	}
	if err := h.users.VerifyEmail(c.Request.Context(), in.Token); err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"message": "Email verified successfully"}))
}
