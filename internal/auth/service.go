package auth

import (
    "time"

    "github.com/golang-jwt/jwt/v5"
    "golang.org/x/crypto/bcrypt"

    "github.com/classtrack/classtrack-back/internal/config"
    "github.com/classtrack/classtrack-back/internal/models"
)

func HashPassword(password string) (string, error) {
    hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
    if err != nil {
        return "", err
    }
    return string(hash), nil
}

func CheckPassword(hash, password string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a session token carrying the user's id and role.
func IssueToken(cfg *config.Config, u *models.User) (string, error) {
    claims := jwt.MapClaims{
        "sub":  float64(u.ID),
        "role": u.Role,
        "exp":  time.Now().Add(cfg.JWTExpire).Unix(),
    }
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString([]byte(cfg.JWTSecret))
}

// PublicUser is the profile shape returned to clients.
type PublicUser struct {
    ID    uint   `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
    Role  string `json:"role"`
}

func Public(u *models.User) PublicUser {
    return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
