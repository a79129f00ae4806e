// Package pattern mines maximal frequent sequential patterns with vertical
// id-lists and equivalence classes.
package pattern

import (
	"context"
	"seqminer/metrics"
	M "seqminer/model"
	"time"

	log "github.com/sirupsen/logrus"
)

// Mine returns the maximal frequent patterns of db selected by opts.
func Mine(db M.Database, opts Options) ([]M.Result, error) {
	results, _, err := MineContext(context.Background(), db, opts)
	return results, err
}

// MineContext is Mine with cancellation between classes and run statistics.
// db is only read and may be shared by concurrent runs.
func MineContext(ctx context.Context, db M.Database, opts Options) ([]M.Result, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}

	logCtx := log.WithFields(log.Fields{
		"sequences": db.NumSequences(),
		"events":    db.NumEvents(),
		"options":   opts.String(),
	})
	logCtx.Debug("Mining started.")

	startTime := time.Now()
	metrics.Increment(metrics.IncrMiningRunCount)

	raw, stats, err := mineMaximal(ctx, db, opts)
	if err != nil {
		metrics.Increment(metrics.IncrMiningRunAborted)
		logCtx.WithError(err).Error("Mining aborted.")
		return nil, stats, err
	}
	results := Select(raw, opts)

	latency := time.Since(startTime)
	metrics.RecordLatency(metrics.LatencyMiningRun, float64(latency.Milliseconds()))
	metrics.CountInt(metrics.CountMiningCandidates, int64(stats.Candidates))
	metrics.CountInt(metrics.CountMiningMaximalPatterns, int64(stats.Maximal))

	logCtx.WithFields(log.Fields{
		"candidates": stats.Candidates,
		"frequent":   stats.Frequent,
		"maximal":    stats.Maximal,
		"reported":   len(results),
		"time_taken": latency.String(),
	}).Info("Mining completed.")
	return results, stats, nil
}
