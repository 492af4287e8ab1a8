package router

import (
	"log"
	"net/http"
	"strings"

	"bucketindex/config"
	"bucketindex/controllers"
	"bucketindex/middleware"
	"bucketindex/paths"
	"bucketindex/storage"
	"bucketindex/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Route is the class a request path falls into
type Route int

const (
	RouteNotFound Route = iota
	RouteRoot
	RouteProxy
	RouteBrowse
)

func (r Route) String() string {
	switch r {
	case RouteRoot:
		return "root"
	case RouteProxy:
		return "proxy"
	case RouteBrowse:
		return "browse"
	default:
		return "not_found"
	}
}

// Classify maps a decoded request path to its route. Earlier cases win.
func Classify(path string) Route {
	switch {
	case path == "" || path == "/":
		return RouteRoot
	case strings.HasPrefix(path, paths.ProxyPrefix):
		return RouteProxy
	case path == paths.BrowseRoot || strings.HasPrefix(path, paths.BrowseRoot+paths.Separator):
		return RouteBrowse
	default:
		return RouteNotFound
	}
}

// Dispatcher sends each request to the handler for its route
type Dispatcher struct {
	browser *controllers.BrowserController
	proxy   *controllers.ProxyController
	limiter *middleware.RateLimiter
}

// NewDispatcher creates a dispatcher. A nil limiter disables proxy rate limiting.
func NewDispatcher(browser *controllers.BrowserController, proxy *controllers.ProxyController, limiter *middleware.RateLimiter) *Dispatcher {
	return &Dispatcher{
		browser: browser,
		proxy:   proxy,
		limiter: limiter,
	}
}

// Serve handles every GET request
func (d *Dispatcher) Serve(c *gin.Context) {
	route := Classify(c.Request.URL.Path)
	c.Set(middleware.RouteKey, route.String())

	switch route {
	case RouteRoot:
		c.Redirect(http.StatusFound, paths.BrowseRoot)
	case RouteProxy:
		if !d.limiter.Allow(c.ClientIP()) {
			c.String(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		d.proxy.ProxyObject(c)
	case RouteBrowse:
		d.browser.ListFolder(c)
	default:
		c.String(http.StatusNotFound, "Not Found")
	}
}

// RegisterRoutes sends every GET through the dispatcher
func RegisterRoutes(r *gin.Engine, d *Dispatcher) {
	r.GET("/*path", d.Serve)
}

// NewEngine builds the gin engine serving the index for bucket
func NewEngine(cfg *config.Config, bucket storage.Bucket, logger *log.Logger) *gin.Engine {
	// Create a new Gin router with no middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))

	// Cross-origin access lets other sites embed proxied objects
	if cfg.CorsOrigin != "" {
		r.Use(cors.New(corsConfig(cfg.CorsOrigin)))
	}

	r.SetHTMLTemplate(view.Template())

	d := NewDispatcher(
		controllers.NewBrowserController(bucket, cfg.UseProxy),
		controllers.NewProxyController(bucket),
		middleware.NewRateLimiter(cfg.ProxyRateLimit),
	)
	RegisterRoutes(r, d)

	return r
}

func corsConfig(origins string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if origins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, o)
			}
		}
	}
	corsConfig.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Range", "If-None-Match", "If-Modified-Since"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Type", "ETag", "Last-Modified", middleware.RequestIDHeader}
	return corsConfig
}
