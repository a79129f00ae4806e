package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	C "seqminer/config"
	mid "seqminer/middleware"
	M "seqminer/model"
	P "seqminer/pattern"
	"seqminer/store"
	U "seqminer/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

const defaultRunTimeout = 5 * time.Minute

var errBodyTooLarge = errors.New("request body too large")

type MineResponse struct {
	DatasetID string     `json:"dataset_id,omitempty"`
	RunID     string     `json:"run_id"`
	Options   P.Options  `json:"options"`
	Stats     P.Stats    `json:"stats"`
	Results   []M.Result `json:"results"`
}

// RunLister lists stored run ids of a dataset.
type RunLister interface {
	ListRuns(datasetId string) []string
}

// parseOptionsFromQuery reads mining options from query params. The number
// of routines comes from the server configuration.
func parseOptionsFromQuery(c *gin.Context) (P.Options, error) {
	var opts P.Options

	minSupport, err := strconv.Atoi(c.Query("min_support"))
	if err != nil {
		return opts, errors.Wrap(P.ErrInvalidMinimumSupport, "min_support param")
	}
	opts.MinimumSupport = minSupport

	// A provided max_length or top_number must be positive. Only an absent
	// param leaves the option unset.
	if param, ok := c.GetQuery("max_length"); ok {
		if opts.MaxLength, err = strconv.Atoi(param); err != nil {
			return opts, errors.Wrap(P.ErrInvalidMaxLength, "max_length param")
		}
		if opts.MaxLength <= 0 {
			return opts, errors.Wrapf(P.ErrInvalidMaxLength, "got %d", opts.MaxLength)
		}
	}
	if param, ok := c.GetQuery("top_number"); ok {
		if opts.TopNumber, err = strconv.Atoi(param); err != nil {
			return opts, errors.Wrap(P.ErrInvalidTopNumber, "top_number param")
		}
		if opts.TopNumber <= 0 {
			return opts, errors.Wrapf(P.ErrInvalidTopNumber, "got %d", opts.TopNumber)
		}
	}
	if param := c.Query("sort"); param != "" {
		if opts.Sort, err = strconv.ParseBool(param); err != nil {
			return opts, errors.Errorf("invalid sort param %q", param)
		}
	}
	if opts.TieBreak, err = P.ParseTieBreak(c.Query("tie_break")); err != nil {
		return opts, err
	}

	if config := C.GetConfig(); config != nil {
		opts.NumRoutines = config.NumRoutines
	}
	return opts, opts.Validate()
}

func getRunTimeout() time.Duration {
	if config := C.GetConfig(); config != nil && config.MaxRunSeconds > 0 {
		return U.SecondsToDuration(config.MaxRunSeconds)
	}
	return defaultRunTimeout
}

func getMaxUploadBytes() int64 {
	if config := C.GetConfig(); config != nil {
		return config.MaxUploadBytes
	}
	return 0
}

func readRequestBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	return body, nil
}

func abortWithBodyError(c *gin.Context, err error) {
	if err == errBodyTooLarge {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body."})
}

// mineWithTimeout bounds the run by the request context and the configured
// run timeout.
func mineWithTimeout(c *gin.Context, db M.Database, opts P.Options) ([]M.Result, P.Stats, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), getRunTimeout())
	defer cancel()
	return P.MineContext(ctx, db, opts)
}

func abortWithMiningError(c *gin.Context, logCtx *log.Entry, err error) {
	if P.IsConfigurationError(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logCtx.WithError(err).Warn("Mining run stopped.")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Mining run timed out."})
		return
	}
	logCtx.WithError(err).Error("Mining run failed.")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Mining run failed."})
}

// respondWithResults writes JSON, or "length support pattern" lines with
// format=text.
func respondWithResults(c *gin.Context, response MineResponse) {
	if c.Query("format") == FormatText {
		var buf bytes.Buffer
		if err := store.WriteResultLines(&buf, response.Results); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to write results."})
			return
		}
		c.Header(HEADER_RUN_ID, response.RunID)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, response)
}

// MineHandler mines the CSV sequences in the request body without storing
// anything.
// POST /mine?min_support=2&max_length=3&top_number=10&sort=true
func MineHandler(c *gin.Context) {
	logCtx := log.WithField("request_id", U.GetScopeByKeyAsString(c, mid.SCOPE_REQUEST_ID))

	opts, err := parseOptionsFromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body, err := readRequestBody(c)
	if err != nil {
		abortWithBodyError(c, err)
		return
	}
	db, err := store.ReadDatabase(bytes.NewReader(body))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, stats, err := mineWithTimeout(c, db, opts)
	if err != nil {
		abortWithMiningError(c, logCtx, err)
		return
	}
	respondWithResults(c, MineResponse{
		RunID:   U.GetUUID(),
		Options: opts,
		Stats:   stats,
		Results: results,
	})
}

// UploadSequencesHandler stores the CSV body as the dataset's sequences.
// POST /datasets/:dataset_id/sequences
func UploadSequencesHandler(rs *store.ResultStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetId := U.GetScopeByKeyAsString(c, mid.SCOPE_DATASET)
		logCtx := log.WithFields(log.Fields{
			"request_id": U.GetScopeByKeyAsString(c, mid.SCOPE_REQUEST_ID),
			"dataset_id": datasetId,
		})

		body, err := readRequestBody(c)
		if err != nil {
			abortWithBodyError(c, err)
			return
		}
		db, err := rs.PutSequences(datasetId, body)
		if err != nil {
			if errors.Cause(err) == store.ErrMalformedRow {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logCtx.WithError(err).Error("Failed to store sequences.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store sequences."})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"dataset_id": datasetId,
			"sequences":  db.NumSequences(),
			"events":     db.NumEvents(),
		})
	}
}

// MineDatasetHandler mines a stored dataset and persists the run.
// POST /datasets/:dataset_id/mine?min_support=2
func MineDatasetHandler(rs *store.ResultStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetId := U.GetScopeByKeyAsString(c, mid.SCOPE_DATASET)
		logCtx := log.WithFields(log.Fields{
			"request_id": U.GetScopeByKeyAsString(c, mid.SCOPE_REQUEST_ID),
			"dataset_id": datasetId,
		})

		opts, err := parseOptionsFromQuery(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		db, err := rs.GetSequences(datasetId)
		if err == store.ErrDatasetNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			logCtx.WithError(err).Error("Failed to read sequences.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to read sequences."})
			return
		}

		results, stats, err := mineWithTimeout(c, db, opts)
		if err != nil {
			abortWithMiningError(c, logCtx, err)
			return
		}

		run := &store.Run{
			DatasetID: datasetId,
			RunID:     U.GetUUID(),
			Options:   opts,
			Stats:     stats,
			CreatedAt: U.TimeNowZ(),
			Results:   results,
		}
		if err := rs.PutRun(run); err != nil {
			logCtx.WithError(err).Error("Failed to store run.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store run."})
			return
		}
		respondWithResults(c, responseFromRun(run))
	}
}

// GetRunHandler returns a stored run.
// GET /datasets/:dataset_id/runs/:run_id
func GetRunHandler(rs *store.ResultStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetId := U.GetScopeByKeyAsString(c, mid.SCOPE_DATASET)
		runId := c.Params.ByName("run_id")
		if !U.IsValidUUID(runId) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid run id on param."})
			return
		}

		run, err := rs.GetRun(datasetId, runId)
		if err == store.ErrRunNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"dataset_id": datasetId,
				"run_id":     runId,
			}).Error("Failed to read run.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to read run."})
			return
		}
		respondWithResults(c, responseFromRun(run))
	}
}

// ListRunsHandler lists the run ids kept on local disk.
// GET /datasets/:dataset_id/runs
func ListRunsHandler(lister RunLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetId := U.GetScopeByKeyAsString(c, mid.SCOPE_DATASET)
		c.JSON(http.StatusOK, gin.H{"dataset_id": datasetId, "runs": lister.ListRuns(datasetId)})
	}
}

func responseFromRun(run *store.Run) MineResponse {
	return MineResponse{
		DatasetID: run.DatasetID,
		RunID:     run.RunID,
		Options:   run.Options,
		Stats:     run.Stats,
		Results:   run.Results,
	}
}
