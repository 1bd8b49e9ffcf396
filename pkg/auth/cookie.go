package auth

import (
	"net/http"
	"net/url"
	"time"
)

// CookieSettings contains cookie security settings derived from base URL.
type CookieSettings struct {
	// Secure indicates whether the cookie should only be sent over HTTPS.
	Secure bool
	// Domain is the cookie domain scope. Empty isolates to the exact host.
	Domain string
}

// DeriveCookieSettings determines cookie security settings from the base
// URL. Localhost deployments allow plain HTTP; anything else marks the
// cookies Secure unless the URL is explicitly http. An explicit
// configCookieDomain overrides the derived domain.
func DeriveCookieSettings(baseURL string, configCookieDomain string) CookieSettings {
	parsed, err := url.Parse(baseURL)
	if err != nil || baseURL == "" {
		return CookieSettings{Secure: true, Domain: configCookieDomain}
	}

	hostname := parsed.Hostname()
	secure := parsed.Scheme != "http"
	if hostname == "localhost" || hostname == "127.0.0.1" {
		secure = false
	}

	return CookieSettings{
		Secure: secure,
		Domain: configCookieDomain,
	}
}

// SetSessionCookies sets the accessToken and refreshToken cookies on login.
// Both are httpOnly with SameSite=Strict.
func SetSessionCookies(w http.ResponseWriter, s CookieSettings, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, sessionCookie(s, AccessTokenCookie, accessToken, accessTTL))
	http.SetCookie(w, sessionCookie(s, RefreshTokenCookie, refreshToken, refreshTTL))
}

// ClearSessionCookies expires both session cookies on logout.
func ClearSessionCookies(w http.ResponseWriter, s CookieSettings) {
	http.SetCookie(w, sessionCookie(s, AccessTokenCookie, "", -time.Second))
	http.SetCookie(w, sessionCookie(s, RefreshTokenCookie, "", -time.Second))
}

func sessionCookie(s CookieSettings, name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	} else {
		c.MaxAge = -1
	}
	return c
}
