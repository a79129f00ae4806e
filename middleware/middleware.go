package middleware

import (
	"net/http"
	C "seqminer/config"
	U "seqminer/util"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

// scope constants.
const SCOPE_REQUEST_ID = "requestId"
const SCOPE_DATASET = "datasetId"

const HEADER_REQUEST_ID = "X-Request-Id"

// RequestIdGenerator - Uses the incoming request id header or generates one
// and sets it on the scope and the response.
func RequestIdGenerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.Request.Header.Get(HEADER_REQUEST_ID)
		if requestId == "" {
			requestId = xid.New().String()
		}
		U.SetScope(c, SCOPE_REQUEST_ID, requestId)
		c.Header(HEADER_REQUEST_ID, requestId)
		c.Next()
	}
}

// Logger logs one line per request with the request id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		logCtx := log.WithFields(log.Fields{
			"request_id": U.GetScopeByKeyAsString(c, SCOPE_REQUEST_ID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"time_taken": time.Since(startTime).String(),
		})
		if len(c.Errors) > 0 {
			logCtx.WithField("errors", c.Errors.String()).Error("Request failed.")
			return
		}
		logCtx.Info("Request served.")
	}
}

// Recovery converts a panic in a handler into a 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"request_id": U.GetScopeByKeyAsString(c, SCOPE_REQUEST_ID),
					"panic":      r,
				}).Error("Recovered from panic.")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Internal server error."})
			}
		}()
		c.Next()
	}
}

// CustomCors allows the local frontends in development.
func CustomCors() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if C.IsDevelopment() {
		corsConfig.AllowOrigins = []string{"http://localhost:8080", "http://localhost:3000", "http://localhost:8090"}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.ExposeHeaders = []string{HEADER_REQUEST_ID}
	return cors.New(corsConfig)
}

// ValidateDatasetId - Rejects requests with an unsafe dataset_id param and
// sets the dataset scope.
func ValidateDatasetId() gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetId := c.Params.ByName("dataset_id")
		if !U.IsValidIdentifier(datasetId) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset id on param."})
			return
		}
		U.SetScope(c, SCOPE_DATASET, datasetId)
		c.Next()
	}
}

// LimitRequestBody caps the readable body at maxBytes.
func LimitRequestBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
