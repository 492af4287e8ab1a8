package controllers

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"bucketindex/metrics"
	"bucketindex/middleware"
	"bucketindex/paths"
	"bucketindex/storage"
	"bucketindex/utils"

	"github.com/gin-gonic/gin"
)

// ProxyController streams objects from the bucket to the client
type ProxyController struct {
	bucket storage.Bucket
	logger *log.Logger
}

// NewProxyController creates a new proxy controller
func NewProxyController(bucket storage.Bucket) *ProxyController {
	return &ProxyController{
		bucket: bucket,
		logger: utils.NewCustomLogger("PROXY"),
	}
}

// ProxyObject streams /proxy/<key> from the bucket with an inline
// disposition. The path was decoded once by net/http and is used as is.
func (c *ProxyController) ProxyObject(ctx *gin.Context) {
	requestID := ctx.GetString(middleware.RequestIDKey)
	key := strings.TrimPrefix(ctx.Request.URL.Path, paths.ProxyPrefix)
	if key == "" {
		ctx.String(http.StatusNotFound, "Not Found")
		return
	}

	// Bound to the client request: a disconnect cancels the upstream fetch
	obj, err := c.bucket.Open(ctx.Request.Context(), key)
	if err != nil {
		c.logger.Printf("%s error fetching %q: %v", requestID, key, err)
		ctx.String(http.StatusInternalServerError, "Proxy error: %s", err.Error())
		return
	}
	defer obj.Body.Close()

	ctx.Header("Content-Type", obj.ContentType)
	ctx.Header("Content-Disposition", "inline")
	if obj.ContentLength >= 0 {
		ctx.Header("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	if obj.ETag != "" {
		ctx.Header("ETag", obj.ETag)
	}
	if obj.LastModified != "" {
		ctx.Header("Last-Modified", obj.LastModified)
	}
	ctx.Status(http.StatusOK)

	// Stream the object to the client
	body := &countingReader{r: obj.Body}
	_, err = io.CopyBuffer(flushWriter{ctx.Writer}, body, make([]byte, streamBufferSize))
	metrics.ProxiedBytes.Add(float64(body.n))
	if err != nil {
		c.logger.Printf("%s stream of %q stopped after %d bytes: %v", requestID, key, body.n, err)
	}
}

// streamBufferSize bounds how much of an object is held in memory at once
const streamBufferSize = 32 * 1024

// flushWriter flushes each chunk to the client before the next upstream read
type flushWriter struct {
	w gin.ResponseWriter
}

func (fw flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if err == nil {
		fw.w.Flush()
	}
	return n, err
}

// countingReader counts bytes as they are copied to the client
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
