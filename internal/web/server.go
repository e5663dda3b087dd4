package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"cascade/form/internal/domain"
	"cascade/form/internal/form"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CategorySource supplies the category tree for new sessions.
type CategorySource interface {
	Categories(ctx context.Context) []domain.Category
}

type Server struct {
	router   *gin.Engine
	sessions *sessions
}

// NewServer builds the router. Sessions idle for longer than sessionTTL are
// dropped; zero keeps them for thirty minutes.
func NewServer(categories CategorySource, fetcher form.OptionsFetcher, otherLabel string, sessionTTL time.Duration) (*Server, error) {
	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		sessions: newSessions(sessionTTL, func(ctx context.Context) *form.Form {
			return form.New(categories.Categories(ctx), fetcher, form.WithOtherLabel(otherLabel))
		}),
	}

	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "online")
	})

	router.GET("/", s.handleIndex)
	router.GET("/api/state", s.handleState)
	router.POST("/category", s.handleCategory)
	router.POST("/subcategories", s.handleSubCategories)
	router.POST("/selection", s.handleSelection)
	router.POST("/submit", s.handleSubmit)

	s.router = router
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Wait blocks until every in-flight option fetch has landed.
func (s *Server) Wait() {
	s.sessions.wait()
}

// Sessions counts the sessions that have not expired.
func (s *Server) Sessions() int {
	return s.sessions.count()
}

func (s *Server) handleIndex(c *gin.Context) {
	f := s.sessions.get(c)
	c.HTML(http.StatusOK, "index", f.Snapshot())
}

func (s *Server) handleState(c *gin.Context) {
	f := s.sessions.get(c)
	c.JSON(http.StatusOK, f.Snapshot())
}

func (s *Server) handleCategory(c *gin.Context) {
	f := s.sessions.get(c)

	raw := c.PostForm("category_id")
	if raw == "" {
		if err := f.SelectMainCategory(c.Request.Context(), nil); err != nil {
			abortWithError(c, err)
			return
		}
		redirectHome(c)
		return
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %q", form.ErrUnknownCategory, raw))
		return
	}

	category, err := f.MainCategory(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := f.SelectMainCategory(c.Request.Context(), &category); err != nil {
		abortWithError(c, err)
		return
	}
	redirectHome(c)
}

func (s *Server) handleSubCategories(c *gin.Context) {
	f := s.sessions.get(c)

	raw := c.PostFormArray("sub_category_id")
	ids := make([]int, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.Atoi(r)
		if err != nil {
			abortWithError(c, fmt.Errorf("%w: %q", form.ErrUnknownCategory, r))
			return
		}
		ids = append(ids, id)
	}

	subCategories, err := f.SubCategories(ids)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := f.SelectSubCategories(c.Request.Context(), subCategories); err != nil {
		abortWithError(c, err)
		return
	}
	redirectHome(c)
}

func (s *Server) handleSelection(c *gin.Context) {
	f := s.sessions.get(c)

	optionID, err := strconv.ParseInt(c.PostForm("option_id"), 10, 64)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %q", form.ErrUnknownOption, c.PostForm("option_id")))
		return
	}

	entry, err := f.ResolveChoice(c.PostForm("group"), optionID, c.PostForm("other_text"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	f.RecordSelection(entry)
	redirectHome(c)
}

func (s *Server) handleSubmit(c *gin.Context) {
	f := s.sessions.get(c)

	if err := f.Submit(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	redirectHome(c)
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, form.ErrUnknownCategory),
		errors.Is(err, form.ErrUnknownGroup),
		errors.Is(err, form.ErrUnknownOption):
		status = http.StatusBadRequest
	case errors.Is(err, form.ErrInvalidTransition):
		status = http.StatusConflict
	}

	log.Warnf("⚠️ %s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	c.String(status, err.Error())
	c.Abort()
}

// requestLogger writes one access log line per request through logrus.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Round(time.Microsecond).String(),
		}).Debug("request served")
	}
}
