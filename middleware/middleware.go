package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"studioerp/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	Branch   string `json:"branch,omitempty"`
	jwt.RegisteredClaims
}

// Auth validates HS256 bearer tokens signed with one secret.
type Auth struct {
	secret []byte
}

func NewAuth(secret []byte) *Auth {
	return &Auth{secret: secret}
}

func (a *Auth) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return a.secret, nil
}

// Authenticate puts the caller's user id and branch into the request context.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" && websocket.IsWebSocketUpgrade(r) {
			// browsers cannot set headers on a websocket handshake
			if t := r.URL.Query().Get("token"); t != "" {
				tokenString = "Bearer " + t
			}
		}
		if tokenString == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		claims, err := a.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		if claims.Branch != "" {
			ctx = context.WithValue(ctx, globals.BranchKey, claims.Branch)
		}
		next(w, r.WithContext(ctx), ps)
	}
}

func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	raw, ok := strings.CutPrefix(tokenString, "Bearer ")
	if !ok || raw == "" {
		return nil, fmt.Errorf("invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, a.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("unauthorized: invalid token")
	}
	return claims, nil
}
