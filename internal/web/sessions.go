package web

import (
	"context"
	"net/http"
	"time"

	"cascade/form/internal/form"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const (
	sessionCookie     = "form_session"
	defaultSessionTTL = 30 * time.Minute
)

// sessions maps a browser cookie to its own form instance. A session expires
// once it has gone untouched for the idle TTL.
type sessions struct {
	forms   *cache.Cache
	newForm func(ctx context.Context) *form.Form
}

func newSessions(ttl time.Duration, newForm func(ctx context.Context) *form.Form) *sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	forms := cache.New(ttl, ttl/2)
	forms.OnEvicted(func(id string, _ interface{}) {
		log.Debugf("Form session %s expired", id)
	})

	return &sessions{
		forms:   forms,
		newForm: newForm,
	}
}

// get returns the caller's form, starting a new session when the cookie is
// missing, unknown or expired. Every hit pushes the expiry back.
func (s *sessions) get(c *gin.Context) *form.Form {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if cached, ok := s.forms.Get(id); ok {
			f := cached.(*form.Form)
			s.forms.SetDefault(id, f)
			return f
		}
	}

	// loading categories may hit the network
	f := s.newForm(c.Request.Context())
	id := uuid.NewString()
	s.forms.SetDefault(id, f)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	log.Debugf("Started form session %s", id)
	return f
}

// wait blocks until every live session's in-flight fetches have landed.
func (s *sessions) wait() {
	for _, item := range s.forms.Items() {
		item.Object.(*form.Form).Wait()
	}
}

func (s *sessions) count() int {
	return len(s.forms.Items())
}
