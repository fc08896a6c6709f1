package auth

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"

    "github.com/classtrack/classtrack-back/internal/config"
)

// Context keys populated by AuthMiddleware.
const (
    CtxUserID = "user_id"
    CtxRole   = "role"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
    return func(c *gin.Context) {
        authHeader := c.GetHeader("Authorization")
        if authHeader == "" {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing Authorization header"})
            return
        }

        parts := strings.Split(authHeader, " ")
        if len(parts) != 2 || parts[0] != "Bearer" {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid Authorization header"})
            return
        }

        jwtSecret := []byte(cfg.JWTSecret)

        token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
            if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
                return nil, jwt.ErrSignatureInvalid
            }
            return jwtSecret, nil
        })
        if err != nil || !token.Valid {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
            return
        }

        claims, ok := token.Claims.(jwt.MapClaims)
        if !ok {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid claims"})
            return
        }

        sub, okSub := claims["sub"].(float64)
        role, okRole := claims["role"].(string)
        if !okSub || !okRole {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid claims"})
            return
        }

        // Attach identity to context
        c.Set(CtxUserID, uint(sub))
        c.Set(CtxRole, role)
        c.Next()
    }
}

// RequireRoles gates a route to the given roles. It must run after
// AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(c *gin.Context) {
        if !allowed[c.GetString(CtxRole)] {
            c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient role"})
            return
        }
        c.Next()
    }
}
