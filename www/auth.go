package www

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie = "recondeck_admin"
	sessionTTL    = 7 * 24 * time.Hour
)

// auth gates the payment and account endpoints. Advisors use the
// dashboard anonymously; a session existing at all means admin rights,
// there is no role hierarchy.
type auth struct {
	cookies *sessions.CookieStore
}

func newAuth(secret string) *auth {
	key := []byte(secret)
	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil && len(decoded) >= 32 {
		key = decoded
	}
	if len(key) < 32 {
		// No usable secret configured: sessions die with the process.
		key = make([]byte, 32)
		rand.Read(key)
	}
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &auth{cookies: cs}
}

// admin returns the logged-in admin username, if any.
func (a *auth) admin(r *http.Request) (string, bool) {
	sess, _ := a.cookies.Get(r, sessionCookie)
	u, ok := sess.Values["admin"].(string)
	return u, ok && u != ""
}

func (a *auth) signIn(w http.ResponseWriter, r *http.Request, username string) {
	sess, _ := a.cookies.Get(r, sessionCookie)
	sess.Values["admin"] = username
	sess.Values["since"] = time.Now().Unix()
	sess.Save(r, w)
}

func (a *auth) signOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := a.cookies.Get(r, sessionCookie)
	delete(sess.Values, "admin")
	sess.Options.MaxAge = -1
	sess.Save(r, w)
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
