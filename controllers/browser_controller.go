package controllers

import (
	"log"
	"net/http"

	"bucketindex/middleware"
	"bucketindex/paths"
	"bucketindex/storage"
	"bucketindex/utils"
	"bucketindex/view"

	"github.com/gin-gonic/gin"
)

// BrowserController serves the folder index pages
type BrowserController struct {
	bucket storage.Bucket
	links  view.Links
	logger *log.Logger
}

// NewBrowserController creates a new browser controller. With useProxy set,
// file links go through the proxy route instead of straight to the bucket.
func NewBrowserController(bucket storage.Bucket, useProxy bool) *BrowserController {
	return &BrowserController{
		bucket: bucket,
		links: view.Links{
			UseProxy:  useProxy,
			ObjectURL: bucket.ObjectURL,
		},
		logger: utils.NewCustomLogger("BROWSER"),
	}
}

// ListFolder renders the listing for the prefix under /browser
func (c *BrowserController) ListFolder(ctx *gin.Context) {
	prefix := paths.ToPrefix(ctx.Request.URL.Path)

	res, err := c.bucket.List(ctx.Request.Context(), prefix)
	if err != nil {
		c.logger.Printf("%s error listing %q: %v", ctx.GetString(middleware.RequestIDKey), prefix, err)
		ctx.String(http.StatusInternalServerError, "Error fetching from storage\n%s", err.Error())
		return
	}

	ctx.Header("Cache-Control", "no-store")
	ctx.HTML(http.StatusOK, view.PageTemplate, view.NewPage(prefix, res, c.links))
}
