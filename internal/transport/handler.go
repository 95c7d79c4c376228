// Package transport serves the color analyzer over HTTP.
package transport

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/colorscope/colorscope/internal/analyzer"
	"github.com/colorscope/colorscope/internal/auth"
	"github.com/colorscope/colorscope/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Version is reported by the health endpoint.
var Version = "dev"

const requestIDHeader = "X-Request-ID"

// FrameRequest is the body of POST /analyze_frame.
type FrameRequest struct {
	Image string `json:"image"`
}

// Response is the envelope returned by both analysis routes.
type Response struct {
	OK     bool                  `json:"ok"`
	Result *analyzer.ColorResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Options configures the router.
type Options struct {
	Service       *service.ColorService
	Authorizer    auth.Authorizer
	Logger        *logrus.Logger
	MaxUploadSize int64
}

// NewHandler builds the HTTP router.
func NewHandler(opts Options) http.Handler {
	if opts.Authorizer == nil {
		opts.Authorizer = auth.AllowAll{}
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(opts.Logger),
		requestSizeLimiter(opts.MaxUploadSize),
	)

	r.GET("/health", healthCheck)

	protected := r.Group("/", requireCapability(opts.Authorizer))
	protected.POST("/analyze_frame", analyzeFrame(opts.Service))
	protected.POST("/upload", upload(opts.Service))

	return r
}

func analyzeFrame(svc *service.ColorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		roi, err := roiParam(c, svc.DefaultROI())
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}

		var req FrameRequest
		// A missing or malformed body leaves Image empty, which the decoder
		// reports as missing image data.
		_ = c.ShouldBindJSON(&req)

		result, err := svc.AnalyzeFrame(req.Image, roi)
		if err != nil {
			respondAnalysisError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{OK: true, Result: &result})
	}
}

func upload(svc *service.ColorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		roi, err := roiParam(c, svc.DefaultROI())
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}

		fh, err := c.FormFile("image")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respondError(c, http.StatusRequestEntityTooLarge, errors.New("file too large"))
				return
			}
			respondError(c, http.StatusBadRequest, service.ErrNoFile)
			return
		}
		if err := service.CheckUpload(fh.Filename, fh.Size); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}

		result, err := svc.AnalyzeUpload(fh.Filename, data, roi)
		if err != nil {
			respondAnalysisError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{OK: true, Result: &result})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// roiParam reads the optional roi query parameter.
func roiParam(c *gin.Context, def int) (int, error) {
	raw := c.Query("roi")
	if raw == "" {
		return def, nil
	}
	roi, err := strconv.Atoi(raw)
	if err != nil || roi < 0 {
		return 0, errors.New("roi must be a non-negative integer")
	}
	return roi, nil
}

func respondAnalysisError(c *gin.Context, err error) {
	if service.IsClientError(err) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	respondError(c, http.StatusInternalServerError, err)
}

func respondError(c *gin.Context, code int, err error) {
	c.Set("error", err)
	c.AbortWithStatusJSON(code, Response{OK: false, Error: err.Error()})
}

// Middleware

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		entry := log.WithFields(logrus.Fields{
			"request_id":  c.GetString("request_id"),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"ip":          c.ClientIP(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if v, ok := c.Get("error"); ok {
			if err, ok := v.(error); ok {
				entry = entry.WithError(err)
			}
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request completed")
		}
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// requireCapability rejects requests the authorizer does not accept before
// any decoding happens.
func requireCapability(a auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.Authorize(c.Request)
		if err != nil {
			respondError(c, http.StatusUnauthorized, err)
			return
		}
		if claims != nil && claims.Subject != "" {
			c.Set("subject", claims.Subject)
		}
		c.Next()
	}
}
