package middleware

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	sessionCookieName = "debate_session"
	sessionTTL        = 30 * 24 * time.Hour

	claimName       = "name"
	claimSkillLevel = "skill_level"
)

type contextKey string

const profileContextKey contextKey = "guest_profile"

// GuestProfile identifies an anonymous visitor across requests. There are no
// accounts: a signed cookie carries the display name used for tournaments,
// leaderboard highlighting, and practice rooms.
type GuestProfile struct {
	Name       string `json:"name"`
	SkillLevel string `json:"skill_level"`
}

type SessionManager struct {
	secret []byte
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

// EnsureGuestSession guarantees every request carries a guest profile,
// minting a fresh one (and setting the cookie) on first visit.
func (m *SessionManager) EnsureGuestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := m.profileFromCookie(r)
		if !ok {
			profile = newGuestProfile()
			m.setCookie(w, profile)
		}
		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionManager) profileFromCookie(r *http.Request) (GuestProfile, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return GuestProfile{}, false
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return GuestProfile{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return GuestProfile{}, false
	}
	name, _ := claims[claimName].(string)
	skill, _ := claims[claimSkillLevel].(string)
	if name == "" {
		return GuestProfile{}, false
	}
	return GuestProfile{Name: name, SkillLevel: skill}, true
}

func (m *SessionManager) setCookie(w http.ResponseWriter, profile GuestProfile) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimName:       profile.Name,
		claimSkillLevel: profile.SkillLevel,
		"exp":           time.Now().Add(sessionTTL).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func newGuestProfile() GuestProfile {
	return GuestProfile{
		Name:       fmt.Sprintf("Debater-%04d", rand.IntN(10000)),
		SkillLevel: "intermediate",
	}
}

// ProfileFromContext returns the guest profile placed by EnsureGuestSession.
func ProfileFromContext(ctx context.Context) (GuestProfile, bool) {
	profile, ok := ctx.Value(profileContextKey).(GuestProfile)
	return profile, ok
}
