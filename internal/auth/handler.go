package auth

import (
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/classtrack/classtrack-back/internal/config"
    "github.com/classtrack/classtrack-back/internal/db"
    "github.com/classtrack/classtrack-back/internal/models"
    "github.com/classtrack/classtrack-back/internal/validate"
)

type RegisterRequest struct {
    Name     string `json:"name" binding:"required"`
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required,min=6"`
    Role     string `json:"role" binding:"omitempty,oneof=student teacher admin"`
}

// RegisterHandler godoc
// @Summary      Register a new user
// @Description  Creates an account and returns a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  RegisterRequest  true  "Account info"
// @Success      201   {object} map[string]interface{}
// @Failure      400   {object} map[string]string
// @Failure      500   {object} map[string]string
// @Router       /auth/register [post]
func RegisterHandler(cfg *config.Config) gin.HandlerFunc {
    return func(c *gin.Context) {
        var req RegisterRequest
        if err := c.ShouldBindJSON(&req); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "errors": validate.Errors(err)})
            return
        }

        role := req.Role
        if role == "" {
            role = models.RoleStudent
        }

        hash, err := HashPassword(req.Password)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
            return
        }

        user := models.User{Name: req.Name, Email: req.Email, PasswordHash: hash, Role: role}
        if err := db.CreateUser(c.Request.Context(), &user); err != nil {
            if errors.Is(err, gorm.ErrDuplicatedKey) {
                c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
                return
            }
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
            return
        }

        token, err := IssueToken(cfg, &user)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
            return
        }

        c.JSON(http.StatusCreated, gin.H{"token": token, "user": Public(&user)})
    }
}

type LoginRequest struct {
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required"`
}

// LoginHandler godoc
// @Summary      Login
// @Description  Verifies credentials and returns a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  LoginRequest  true  "Credentials"
// @Success      200   {object} map[string]interface{}
// @Failure      400   {object} map[string]string
// @Failure      401   {object} map[string]string
// @Router       /auth/login [post]
func LoginHandler(cfg *config.Config) gin.HandlerFunc {
    return func(c *gin.Context) {
        var req LoginRequest
        if err := c.ShouldBindJSON(&req); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "errors": validate.Errors(err)})
            return
        }

        // Unknown email and wrong password answer identically so accounts
        // cannot be enumerated.
        user, err := db.GetUserByEmail(c.Request.Context(), req.Email)
        if err != nil {
            if errors.Is(err, gorm.ErrRecordNotFound) {
                c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
                return
            }
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
            return
        }

        if !CheckPassword(user.PasswordHash, req.Password) {
            c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
            return
        }

        token, err := IssueToken(cfg, user)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
            return
        }

        c.JSON(http.StatusOK, gin.H{"token": token, "user": Public(user)})
    }
}

// MeHandler godoc
// @Summary      Get current user profile
// @Description  Returns the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} PublicUser
// @Failure      401 {object} map[string]string
// @Security     BearerAuth
// @Router       /auth/me [get]
func MeHandler(c *gin.Context) {
    user, err := db.GetUserByID(c.Request.Context(), c.GetUint(CtxUserID))
    if err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
        return
    }
    c.JSON(http.StatusOK, Public(user))
}
