package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"seqminer/cache"
	cacheRedis "seqminer/cache/redis"
	"seqminer/filestore"
	"seqminer/metrics"
	M "seqminer/model"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	IdSeparator = ":"

	redisRunPrefix = "run"
)

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrDatasetNotFound = errors.New("dataset not found")
)

// ResultStore keeps datasets and mining runs. Runs are read through an in
// process LRU, then redis, then the disk and cloud file managers; every
// slower tier that answers back-fills the faster ones.
type ResultStore struct {
	diskFileManager  filestore.FileManager
	cloudFileManager filestore.FileManager

	runCache        *lru.Cache
	redisExpirySecs float64
}

// New expects a disk file manager. cloudManager may be nil.
func New(runCacheSize int, redisExpirySecs float64, diskManager, cloudManager filestore.FileManager) (*ResultStore, error) {
	if diskManager == nil {
		return nil, errors.New("disk file manager required")
	}
	runCache, err := lru.New(runCacheSize)
	if err != nil {
		return nil, err
	}
	return &ResultStore{
		diskFileManager:  diskManager,
		cloudFileManager: cloudManager,
		runCache:         runCache,
		redisExpirySecs:  redisExpirySecs,
	}, nil
}

func GetRunKey(datasetId, runId string) string {
	return fmt.Sprintf("%s%s%s", datasetId, IdSeparator, runId)
}

// PutSequences stores the raw csv of a dataset after checking it parses.
func (rs *ResultStore) PutSequences(datasetId string, data []byte) (M.Database, error) {
	logCtx := log.WithFields(log.Fields{"dataset_id": datasetId, "bytes": len(data)})
	logCtx.Debug("[ResultStore] PutSequences")

	db, err := ReadDatabase(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	path, fName := rs.diskFileManager.GetSequencesFilePathAndName(datasetId)
	if err := rs.diskFileManager.Create(path, fName, bytes.NewReader(data)); err != nil {
		logCtx.WithError(err).Error("Failed to write sequences to disk.")
		return nil, err
	}
	if rs.cloudFileManager != nil {
		path, fName := rs.cloudFileManager.GetSequencesFilePathAndName(datasetId)
		if err := rs.cloudFileManager.Create(path, fName, bytes.NewReader(data)); err != nil {
			logCtx.WithError(err).Error("Failed to write sequences to cloud.")
			return nil, err
		}
	}
	metrics.RecordBytesSize(metrics.BytesSequencesFile, float64(len(data)))
	return db, nil
}

// GetSequences reads a dataset from disk, falling back to the cloud copy.
func (rs *ResultStore) GetSequences(datasetId string) (M.Database, error) {
	logCtx := log.WithField("dataset_id", datasetId)
	logCtx.Debug("[ResultStore] GetSequences")

	path, fName := rs.diskFileManager.GetSequencesFilePathAndName(datasetId)
	file, err := rs.diskFileManager.Get(path, fName)
	if err == nil {
		defer file.Close()
		return ReadDatabase(file)
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	if rs.cloudFileManager == nil {
		return nil, ErrDatasetNotFound
	}

	cPath, cName := rs.cloudFileManager.GetSequencesFilePathAndName(datasetId)
	cloudFile, err := rs.cloudFileManager.Get(cPath, cName)
	if os.IsNotExist(err) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, err
	}
	defer cloudFile.Close()

	var buf bytes.Buffer
	db, err := ReadDatabase(io.TeeReader(cloudFile, &buf))
	if err != nil {
		return nil, err
	}
	if err := rs.diskFileManager.Create(path, fName, &buf); err != nil {
		logCtx.WithError(err).Error("Failed to copy sequences to disk.")
	}
	return db, nil
}

// PutRun writes the run to disk and cloud and warms the caches.
func (rs *ResultStore) PutRun(run *Run) error {
	logCtx := log.WithFields(log.Fields{"dataset_id": run.DatasetID, "run_id": run.RunID})
	logCtx.Debug("[ResultStore] PutRun")

	reader, err := CreateReaderFromRun(run)
	if err != nil {
		return err
	}

	path, fName := rs.diskFileManager.GetResultsFilePathAndName(run.DatasetID, run.RunID)
	if err := rs.diskFileManager.Create(path, fName, reader); err != nil {
		logCtx.WithError(err).Error("Failed to write run to disk.")
		return err
	}
	if rs.cloudFileManager != nil {
		if _, err := reader.Seek(0, io.SeekStart); err != nil {
			logCtx.WithError(err).Error("Failed to rewind run for cloud.")
			return err
		}
		path, fName := rs.cloudFileManager.GetResultsFilePathAndName(run.DatasetID, run.RunID)
		if err := rs.cloudFileManager.Create(path, fName, reader); err != nil {
			logCtx.WithError(err).Error("Failed to write run to cloud.")
			return err
		}
	}
	if size, err := rs.diskFileManager.GetObjectSize(path, fName); err != nil {
		logCtx.WithError(err).Warn("Failed to stat run file.")
	} else {
		metrics.RecordBytesSize(metrics.BytesResultsFile, float64(size))
	}

	rs.putRunInCache(run)
	rs.putRunInRedis(run)
	return nil
}

// GetRun returns ErrRunNotFound when no tier has the run.
func (rs *ResultStore) GetRun(datasetId, runId string) (*Run, error) {
	logCtx := log.WithFields(log.Fields{"dataset_id": datasetId, "run_id": runId})
	logCtx.Debug("[ResultStore] GetRun")

	if run, ok := rs.getRunFromCache(datasetId, runId); ok {
		metrics.Increment(metrics.IncrResultStoreCacheHit)
		return run, nil
	}
	if run, ok := rs.getRunFromRedis(datasetId, runId); ok {
		metrics.Increment(metrics.IncrResultStoreCacheHit)
		rs.putRunInCache(run)
		return run, nil
	}
	metrics.Increment(metrics.IncrResultStoreCacheMiss)

	writeToDisk := false
	run, err := rs.getRunFromFileManager(rs.diskFileManager, datasetId, runId)
	if os.IsNotExist(err) && rs.cloudFileManager != nil {
		writeToDisk = true
		run, err = rs.getRunFromFileManager(rs.cloudFileManager, datasetId, runId)
	}
	if os.IsNotExist(err) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		logCtx.WithError(err).Error("Failed to read run.")
		return nil, err
	}

	if writeToDisk {
		if reader, err := CreateReaderFromRun(run); err == nil {
			path, fName := rs.diskFileManager.GetResultsFilePathAndName(datasetId, runId)
			if err := rs.diskFileManager.Create(path, fName, reader); err != nil {
				logCtx.WithError(err).Error("Failed to copy run to disk.")
			}
		}
	}
	rs.putRunInCache(run)
	rs.putRunInRedis(run)
	return run, nil
}

func (rs *ResultStore) getRunFromFileManager(fm filestore.FileManager, datasetId, runId string) (*Run, error) {
	path, fName := fm.GetResultsFilePathAndName(datasetId, runId)
	file, err := fm.Get(path, fName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return CreateRunFromScanner(CreateScannerFromReader(file))
}

func (rs *ResultStore) putRunInCache(run *Run) {
	rs.runCache.Add(GetRunKey(run.DatasetID, run.RunID), run)
}

func (rs *ResultStore) getRunFromCache(datasetId, runId string) (*Run, bool) {
	value, ok := rs.runCache.Get(GetRunKey(datasetId, runId))
	if !ok {
		return nil, false
	}
	run, ok := value.(*Run)
	return run, ok
}

// cachedRun is the redis encoding of a run. Run itself skips results in
// JSON so the file header stays small.
type cachedRun struct {
	*Run
	Results []M.Result `json:"results"`
}

func (rs *ResultStore) putRunInRedis(run *Run) {
	key, err := cache.NewKey(run.DatasetID, redisRunPrefix, run.RunID)
	if err != nil {
		return
	}
	value, err := json.Marshal(cachedRun{Run: run, Results: run.Results})
	if err != nil {
		return
	}
	err = cacheRedis.Set(key, string(value), rs.redisExpirySecs)
	if err != nil && err != cache.ErrorCacheDisabled {
		log.WithError(err).WithField("run_id", run.RunID).Warn("Failed to cache run in redis.")
	}
}

func (rs *ResultStore) getRunFromRedis(datasetId, runId string) (*Run, bool) {
	key, err := cache.NewKey(datasetId, redisRunPrefix, runId)
	if err != nil {
		return nil, false
	}
	value, err := cacheRedis.Get(key)
	if err != nil {
		return nil, false
	}
	var cached cachedRun
	if err := json.Unmarshal([]byte(value), &cached); err != nil || cached.Run == nil {
		log.WithError(err).WithField("run_id", runId).Warn("Invalid run in redis. Dropping it.")
		if err := cacheRedis.Del(key); err != nil {
			log.WithError(err).WithField("run_id", runId).Error("Failed to drop run from redis.")
		}
		return nil, false
	}
	cached.Run.Results = cached.Results
	return cached.Run, true
}
