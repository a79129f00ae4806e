package handler

import (
	"net/http"
	mid "seqminer/middleware"
	"seqminer/store"

	"github.com/gin-gonic/gin"
)

const HEADER_RUN_ID = "X-Run-Id"

// InitRoutes registers the mining API. A nil lister leaves out the run
// listing route.
func InitRoutes(r *gin.Engine, rs *store.ResultStore, lister RunLister) {
	r.GET("/status", StatusHandler)
	r.POST("/mine", mid.LimitRequestBody(getMaxUploadBytes()), MineHandler)

	datasetRouteGroup := r.Group("/datasets/:dataset_id")
	datasetRouteGroup.Use(mid.ValidateDatasetId())
	datasetRouteGroup.POST("/sequences", mid.LimitRequestBody(getMaxUploadBytes()), UploadSequencesHandler(rs))
	datasetRouteGroup.POST("/mine", MineDatasetHandler(rs))
	datasetRouteGroup.GET("/runs/:run_id", GetRunHandler(rs))
	if lister != nil {
		datasetRouteGroup.GET("/runs", ListRunsHandler(lister))
	}
}

// StatusHandler - Liveness check.
func StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
