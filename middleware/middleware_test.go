package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studioerp/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

var secret = []byte("test-secret")

func sign(t *testing.T, key []byte, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuthenticate(t *testing.T) {
	valid := sign(t, secret, Claims{
		UserID: "u1",
		Branch: "b1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := sign(t, secret, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	foreign := sign(t, []byte("other"), Claims{UserID: "u1"})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no bearer prefix", valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + foreign, http.StatusUnauthorized},
	}

	auth := NewAuth(secret)
	for _, tc := range cases {
		var gotUser, gotBranch string
		h := auth.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
			gotBranch, _ = r.Context().Value(globals.BranchKey).(string)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h(rec, req, nil)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
		if tc.want == http.StatusOK && (gotUser != "u1" || gotBranch != "b1") {
			t.Errorf("%s: context = %q/%q", tc.name, gotUser, gotBranch)
		}
	}
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewAuth(secret).ValidateJWT("Bearer " + tok); err == nil {
		t.Fatal("accepted an unsigned token")
	}
}
