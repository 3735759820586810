// Package server serves the site pages and the planner JSON API.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/content"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/datetime"
	"github.com/iwvelando/arr-planner/pkg/format"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/*.html
var templateFiles embed.FS

// Options configures NewHandler. Zero values select defaults.
type Options struct {
	MaxBodySize int64
	Version     string
	Production  bool
	// RateLimit is the number of API requests allowed per client per
	// RateWindow. Zero disables rate limiting.
	RateLimit  int
	RateWindow time.Duration
	// Content defaults to the embedded index.
	Content *content.Index
}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	production  bool
	index       *content.Index
}

// NewHandler constructs the HTTP handler that serves the site and planner API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	index := opts.Content
	if index == nil {
		var err error
		index, err = content.Default()
		if err != nil {
			logger.Error("failed to load embedded content index",
				zap.String("op", "server.NewHandler"),
				zap.Error(err),
			)
			index = &content.Index{}
		}
	}

	h := &handler{
		logger:      logger,
		maxBodySize: opts.MaxBodySize,
		version:     version,
		production:  opts.Production,
		index:       index,
	}

	engine := gin.New()
	engine.Use(requestID(), accessLog(logger), recovery(logger))
	engine.SetHTMLTemplate(template.Must(template.New("site").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")))

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	engine.StaticFS("/static", http.FS(sub))

	engine.GET("/", h.handleHome)
	engine.GET("/blog", h.handleBlog)
	engine.GET("/blog/page/:page", h.handleBlogPage)
	engine.GET("/blog/:slug", h.handlePost)
	engine.GET("/tags", h.handleTags)
	engine.GET("/tags/:tag", h.handleTag)
	engine.GET(constants.PlannerPath, h.handlePlanner)

	api := engine.Group("/api")
	if opts.RateLimit > 0 {
		window := opts.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		api.Use(rateLimit(newRateLimiter(opts.RateLimit, window), logger))
	}
	api.GET("/arr-planner", h.handlePlannerAPI)
	api.POST("/arr-planner", h.handlePlannerAPIPost)
	api.GET("/arr-planner/scenarios", h.handleScenarios)
	api.GET("/version", h.handleVersion)

	engine.NoRoute(h.handleNotFound)

	return engine
}

var templateFuncs = template.FuncMap{
	"compact":  format.Compact,
	"currency": format.Currency,
	"percent":  format.Percent,
	"number":   format.Number,
	"tagSlug":  content.TagSlug,
	"tagLabel": content.TagLabel,
	"date":     datetime.Display,
	"isoDate":  datetime.ISO,
	"add":      func(a, b int) int { return a + b },
}

func (h *handler) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.version})
}

func (h *handler) handleNotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		h.respondErrorWithOp(c, http.StatusNotFound, "not found", "server.handleNotFound")
		return
	}
	h.renderNotFound(c)
}

func (h *handler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error", gin.H{
		"Title":   "Not found",
		"Status":  http.StatusNotFound,
		"Message": "That page does not exist.",
	})
}

func (h *handler) respondErrorWithOp(c *gin.Context, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// publishedPosts is the sorted listing visible in the current environment.
func (h *handler) publishedPosts() []content.Post {
	return content.SortPosts(content.Published(h.index.Posts, h.production))
}

// scenarioLink is a scenario button on the planner page.
type scenarioLink struct {
	Key    arrplanner.ScenarioKey
	Label  string
	URL    string
	Active bool
}

func scenarioLinks(state querystate.State) []scenarioLink {
	scenarios := arrplanner.Scenarios()
	links := make([]scenarioLink, 0, len(scenarios))
	for _, s := range scenarios {
		links = append(links, scenarioLink{
			Key:    s.Key,
			Label:  s.Label,
			URL:    state.SelectScenario(s.Key).URL(constants.PlannerPath),
			Active: s.Key == state.Scenario,
		})
	}
	return links
}
