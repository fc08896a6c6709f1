package auth

import (
    "crypto/rand"
    "encoding/hex"
    "encoding/json"
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "golang.org/x/oauth2"
    "golang.org/x/oauth2/google"
    "gorm.io/gorm"

    "github.com/classtrack/classtrack-back/internal/config"
    "github.com/classtrack/classtrack-back/internal/db"
    "github.com/classtrack/classtrack-back/internal/models"
)

var googleOauthConfig *oauth2.Config

func InitGoogle(cfg *config.Config) {
    if cfg.GoogleClientID == "" {
        return
    }
    googleOauthConfig = &oauth2.Config{
        RedirectURL:  cfg.GoogleRedirect,
        ClientID:     cfg.GoogleClientID,
        ClientSecret: cfg.GoogleSecret,
        Scopes: []string{
            "openid",
            "https://www.googleapis.com/auth/userinfo.email",
            "https://www.googleapis.com/auth/userinfo.profile",
        },
        Endpoint: google.Endpoint,
    }
}

func GoogleEnabled() bool {
    return googleOauthConfig != nil
}

// GoogleLoginHandler godoc
// @Summary      Login with Google
// @Description  Redirects to the Google consent screen
// @Tags         auth
// @Produce      json
// @Success      307 {string} string "redirect"
// @Router       /auth/google/login [get]
func GoogleLoginHandler() gin.HandlerFunc {
    return func(c *gin.Context) {
        url := googleOauthConfig.AuthCodeURL("state")
        c.Redirect(http.StatusTemporaryRedirect, url)
    }
}

// GoogleCallbackHandler godoc
// @Summary      Google callback
// @Description  Exchanges the code, finds or creates the account and returns a session token
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /auth/google/callback [get]
func GoogleCallbackHandler(cfg *config.Config) gin.HandlerFunc {
    return func(c *gin.Context) {
        code := c.Query("code")
        token, err := googleOauthConfig.Exchange(c.Request.Context(), code)
        if err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to exchange token"})
            return
        }

        // Fetch user info
        resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
        if err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to get user info"})
            return
        }
        defer resp.Body.Close()

        var userInfo struct {
            Email string `json:"email"`
            Name  string `json:"name"`
        }
        if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil || userInfo.Email == "" {
            c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to parse user info"})
            return
        }

        user, err := db.GetUserByEmail(c.Request.Context(), userInfo.Email)
        if err != nil {
            if !errors.Is(err, gorm.ErrRecordNotFound) {
                c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
                return
            }
            // First sign-in: create a student account with an unusable
            // random password so only Google login works for it.
            hash, err := HashPassword(randomSecret())
            if err != nil {
                c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
                return
            }
            created := models.User{
                Name:         userInfo.Name,
                Email:        userInfo.Email,
                PasswordHash: hash,
                Role:         models.RoleStudent,
            }
            if err := db.CreateUser(c.Request.Context(), &created); err != nil {
                c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
                return
            }
            user = &created
        }

        signed, err := IssueToken(cfg, user)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
            return
        }

        c.JSON(http.StatusOK, gin.H{"token": signed, "user": Public(user)})
    }
}

func randomSecret() string {
    b := make([]byte, 32)
    rand.Read(b)
    return hex.EncodeToString(b)
}
