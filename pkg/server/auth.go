package server

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenCookieName = "token"

// Auth guards destructive endpoints with a signed cookie token.
type Auth struct {
	Secret []byte
}

// CreateToken issues an admin token valid for one day.
func (a *Auth) CreateToken(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"username": username,
			"role":     "admin",
			"exp":      time.Now().Add(time.Hour * 24).Unix(),
		})
	return token.SignedString(a.Secret)
}

// Middleware rejects requests without a valid admin token. A nil Auth or an
// empty secret disables the guard, used in single-user deployments.
func (a *Auth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a == nil || len(a.Secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(tokenCookieName)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			return a.Secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}
