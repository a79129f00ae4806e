package middleware

import (
	"net/http"
	"net/http/httptest"
	U "seqminer/util"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIdGenerator(), Logger(), Recovery())
	r.Use(handlers...)
	return r
}

func TestRequestIdGenerator(t *testing.T) {
	r := newTestRouter()
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, U.GetScopeByKeyAsString(c, SCOPE_REQUEST_ID))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HEADER_REQUEST_ID))

	// An incoming id is kept.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/ping", nil)
	req.Header.Set(HEADER_REQUEST_ID, "req-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := newTestRouter()
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error.")
}

func TestValidateDatasetId(t *testing.T) {
	r := newTestRouter()
	group := r.Group("/datasets/:dataset_id")
	group.Use(ValidateDatasetId())
	group.GET("/name", func(c *gin.Context) {
		c.String(http.StatusOK, U.GetScopeByKeyAsString(c, SCOPE_DATASET))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/datasets/retail_2023/name", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "retail_2023", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/datasets/-retail/name", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLimitRequestBody(t *testing.T) {
	r := newTestRouter(LimitRequestBody(4))
	r.POST("/echo", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/echo", strings.NewReader("abc"))
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/echo", strings.NewReader("abcdef"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
