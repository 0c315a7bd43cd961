package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Manager writes the auth cookie pair.
type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	aMax := maxAgeFrom(aexp)
	rMax := maxAgeFrom(rexp)

	c.SetCookie(AccessCookie, access, aMax, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshCookie, refresh, rMax, "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", m.Domain, m.Secure, true)
}

// RefreshFrom returns the refresh token cookie, if any.
func (m *Manager) RefreshFrom(c *gin.Context) string {
	v, err := c.Cookie(RefreshCookie)
	if err != nil {
		return ""
	}
	return v
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}

// SetAccess replaces only the access cookie, after a refresh.
func (m *Manager) SetAccess(c *gin.Context, access string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, access, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}
