package main

// Mines maximal frequent sequential patterns from sid,eid,item,... CSV files.

// Sample usage in terminal.
// go run . --input_file=sequences.csv --min_support=2 --max_length=4 --sort
// go run . --jobs_file=jobs.yaml --num_routines=4 --verify

import (
	"context"
	"flag"
	"io"
	"math"
	"os"
	C "seqminer/config"
	M "seqminer/model"
	P "seqminer/pattern"
	"seqminer/store"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var envFlag = flag.String("env", "development", "")
var inputFileFlag = flag.String("input_file", "", "CSV of sid,eid,item,item,... rows.")
var outputFileFlag = flag.String("output_file", "", "Results file. Stdout when empty.")
var outputFormatFlag = flag.String("output_format", OutputFormatText,
	"text writes 'length support pattern' lines, json writes one JSON result per line.")
var jobsFileFlag = flag.String("jobs_file", "", "YAML file listing jobs. Overrides input_file.")
var numJobRoutinesFlag = flag.Int("num_job_routines", 1, "Jobs of a jobs file mined concurrently.")
var verifyFlag = flag.Bool("verify", false, "Recount every result's support with a full scan.")

var minSupportFlag = flag.Int("min_support", 0, "Minimum number of sequences containing a pattern.")
var maxLengthFlag = flag.Int("max_length", 0, "Maximum pattern length. 0 for no limit.")
var topNumberFlag = flag.Int("top_number", 0, "Keep only the longest top_number results. 0 for all.")
var sortFlag = flag.Bool("sort", false, "Sort results by length desc, then support desc, then canonical pattern.")
var tieBreakFlag = flag.String("tie_break", string(P.TieBreakDiscovery), "discovery or support.")
var numRoutinesFlag = flag.Int("num_routines", 1, "Goroutines per mining run.")

func optionsFromFlags() P.Options {
	return P.Options{
		MinimumSupport: *minSupportFlag,
		MaxLength:      *maxLengthFlag,
		TopNumber:      *topNumberFlag,
		Sort:           *sortFlag,
		TieBreak:       P.TieBreak(*tieBreakFlag),
		NumRoutines:    *numRoutinesFlag,
	}
}

// checkWrittenCaps rejects a max_length or top_number given on the command
// line that is not positive. Leaving the flag out keeps the option unset.
func checkWrittenCaps() error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch {
		case f.Name == "max_length" && *maxLengthFlag <= 0:
			err = errors.Wrapf(P.ErrInvalidMaxLength, "got %d", *maxLengthFlag)
		case f.Name == "top_number" && *topNumberFlag <= 0:
			err = errors.Wrapf(P.ErrInvalidTopNumber, "got %d", *topNumberFlag)
		}
	})
	return err
}

func writeResults(w io.Writer, format string, results []M.Result) error {
	if format == OutputFormatJSON {
		return store.WriteResultsJSON(w, results)
	}
	return store.WriteResultLines(w, results)
}

func runJob(ctx context.Context, job Job, verify bool) error {
	logCtx := log.WithFields(log.Fields{"job": job.Name, "input_file": job.InputFile})

	db, err := store.ReadDatabaseFromFile(job.InputFile)
	if err != nil {
		return err
	}

	startTime := time.Now()
	results, stats, err := P.MineContext(ctx, db, job.Options)
	if err != nil {
		return err
	}
	logCtx.WithFields(log.Fields{
		"stats":      stats,
		"results":    len(results),
		"time_taken": time.Since(startTime).String(),
	}).Info("Mined patterns.")

	if verify {
		if err := P.VerifyResults(db, results, job.Options.MinimumSupport); err != nil {
			return errors.Wrap(err, "verification failed")
		}
		logCtx.Info("Verified result supports.")
	}

	if job.OutputFile == "" {
		return writeResults(os.Stdout, job.OutputFormat, results)
	}
	outputFile, err := os.Create(job.OutputFile)
	if err != nil {
		return err
	}
	defer outputFile.Close()
	if err := writeResults(outputFile, job.OutputFormat, results); err != nil {
		return err
	}
	logCtx.WithField("output_file", job.OutputFile).Info("Wrote results.")
	return nil
}

func runJobsWorker(ctx context.Context, jobs []Job, verify bool,
	errs []error, wg *sync.WaitGroup) {
	defer wg.Done()
	for i, job := range jobs {
		errs[i] = runJob(ctx, job, verify)
	}
}

// runJobs splits jobs into numRoutines batches. Jobs writing to stdout must
// run with a single routine.
func runJobs(ctx context.Context, jobs []Job, numRoutines int, verify bool) []error {
	var wg sync.WaitGroup
	numJobs := len(jobs)
	errs := make([]error, numJobs)
	if numRoutines < 1 {
		numRoutines = 1
	}
	batchSize := int(math.Ceil(float64(numJobs) / float64(numRoutines)))
	for i := 0; i < numRoutines; i++ {
		low := int(math.Min(float64(batchSize*i), float64(numJobs)))
		high := int(math.Min(float64(batchSize*(i+1)), float64(numJobs)))
		if low == high {
			continue
		}
		log.WithFields(log.Fields{"batch": i + 1, "low": low, "high": high}).Debug("Jobs batch.")
		wg.Add(1)
		go runJobsWorker(ctx, jobs[low:high], verify, errs[low:high], &wg)
	}
	wg.Wait()
	return errs
}

func main() {
	flag.Parse()
	C.InitConf(&C.Configuration{AppName: "run_pattern_mine", Env: *envFlag})
	if err := checkWrittenCaps(); err != nil {
		log.WithError(err).Fatal("Invalid options.")
	}

	var jobs []Job
	var err error
	numJobRoutines := 1
	if *jobsFileFlag != "" {
		jobs, err = ReadJobsFile(*jobsFileFlag, optionsFromFlags())
		if err != nil {
			log.WithError(err).WithField("jobs_file", *jobsFileFlag).Fatal("Failed to read jobs.")
		}
		numJobRoutines = *numJobRoutinesFlag
		for _, job := range jobs {
			if job.OutputFile == "" {
				numJobRoutines = 1
				break
			}
		}
	} else {
		if *inputFileFlag == "" {
			log.Fatal("input_file or jobs_file required.")
		}
		job := Job{
			Name:         *inputFileFlag,
			InputFile:    *inputFileFlag,
			OutputFile:   *outputFileFlag,
			OutputFormat: *outputFormatFlag,
			Options:      optionsFromFlags(),
		}
		if err := job.Options.Validate(); err != nil {
			log.WithError(err).Fatal("Invalid options.")
		}
		jobs = []Job{job}
	}

	failed := 0
	for i, err := range runJobs(context.Background(), jobs, numJobRoutines, *verifyFlag) {
		if err != nil {
			failed++
			log.WithError(err).WithField("job", jobs[i].Name).Error("Job failed.")
		}
	}
	if failed > 0 {
		log.WithField("failed", failed).Fatal("Pattern mining failed.")
	}
}
