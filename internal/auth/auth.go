package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agropure/agropure-api/internal/httpx"
)

// Bearer token auth. Tokens are issued on login/register and carry the user id
// plus an expiry, both covered by an HMAC-SHA256 signature. There is no
// server-side session state; every request is verified from the token alone.

type ctxKey string

const userIDCtxKey = ctxKey("userID")

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// UserVerifier optionally validates that a token's user still exists/is active.
// Set it during app bootstrap via SetUserVerifier. If nil, no extra check runs.
type UserVerifier func(ctx context.Context, uid uint) bool

var verifier UserVerifier

// SetUserVerifier configures the verifier used by RequireAuth.
func SetUserVerifier(v UserVerifier) { verifier = v }

// Secret returns TOKEN_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("TOKEN_SECRET"); s != "" {
		return s
	}
	return "devtokensecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// IssueToken creates a signed token for the user, returning it with its expiry.
func IssueToken(userID uint) (token string, expiresAt time.Time) {
	expiresAt = time.Now().Add(TokenTTL).UTC()
	payload := strconv.FormatUint(uint64(userID), 10) + "." + strconv.FormatInt(expiresAt.Unix(), 10)
	return payload + "." + sign(payload), expiresAt
}

// ParseToken validates a token and returns the embedded user id.
func ParseToken(token string) (uint, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return 0, false
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(payload))) {
		return 0, false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return 0, false
	}
	id64, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id64), true
}

// FromRequest extracts and validates the bearer token on r, if any.
func FromRequest(r *http.Request) (uint, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return 0, false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return 0, false
	}
	return ParseToken(strings.TrimSpace(h[len(prefix):]))
}

// WithUserID stores the user id in ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the authenticated user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	v := ctx.Value(userIDCtxKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Middleware attaches the user id to the request context when a valid bearer
// token is present. Requests without a token pass through unauthenticated.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := FromRequest(r); ok {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if verifier != nil && !verifier(r.Context(), uid) {
			// Token refers to a deleted/deactivated user.
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
