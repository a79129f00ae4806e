package main

import (
	"io/ioutil"
	P "seqminer/pattern"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// OptionsSpec holds mining options as written in a jobs file. A nil field
// was not written and takes the value of the enclosing level.
type OptionsSpec struct {
	MinimumSupport *int    `yaml:"min_support"`
	MaxLength      *int    `yaml:"max_length"`
	TopNumber      *int    `yaml:"top_number"`
	Sort           *bool   `yaml:"sort"`
	TieBreak       *string `yaml:"tie_break"`
	NumRoutines    *int    `yaml:"num_routines"`
}

// apply overrides base with every written field. A written max_length or
// top_number must be positive.
func (s OptionsSpec) apply(base P.Options) (P.Options, error) {
	opts := base
	if s.MinimumSupport != nil {
		opts.MinimumSupport = *s.MinimumSupport
	}
	if s.MaxLength != nil {
		if *s.MaxLength <= 0 {
			return opts, errors.Wrapf(P.ErrInvalidMaxLength, "got %d", *s.MaxLength)
		}
		opts.MaxLength = *s.MaxLength
	}
	if s.TopNumber != nil {
		if *s.TopNumber <= 0 {
			return opts, errors.Wrapf(P.ErrInvalidTopNumber, "got %d", *s.TopNumber)
		}
		opts.TopNumber = *s.TopNumber
	}
	if s.Sort != nil {
		opts.Sort = *s.Sort
	}
	if s.TieBreak != nil {
		opts.TieBreak = P.TieBreak(*s.TieBreak)
	}
	if s.NumRoutines != nil {
		opts.NumRoutines = *s.NumRoutines
	}
	return opts, nil
}

// Job is one mining run of a batch.
type Job struct {
	Name         string      `yaml:"name"`
	InputFile    string      `yaml:"input_file"`
	OutputFile   string      `yaml:"output_file"`
	OutputFormat string      `yaml:"output_format"`
	Spec         OptionsSpec `yaml:"options"`

	// Resolved from Spec, the file defaults and the command line.
	Options P.Options `yaml:"-"`
}

type JobDefaults struct {
	OutputFormat string `yaml:"output_format"`
	OptionsSpec  `yaml:",inline"`
}

type JobsFile struct {
	Defaults JobDefaults `yaml:"defaults"`
	Jobs     []Job       `yaml:"jobs"`
}

// ParseJobs decodes a jobs file. Options a job does not write come from the
// file defaults and then from fallback.
func ParseJobs(data []byte, fallback P.Options) ([]Job, error) {
	var jobsFile JobsFile
	if err := yaml.UnmarshalStrict(data, &jobsFile); err != nil {
		return nil, errors.Wrap(err, "invalid jobs file")
	}
	defaults, err := jobsFile.Defaults.apply(fallback)
	if err != nil {
		return nil, errors.Wrap(err, "defaults")
	}
	if jobsFile.Defaults.OutputFormat == "" {
		jobsFile.Defaults.OutputFormat = OutputFormatText
	}

	for i := range jobsFile.Jobs {
		job := &jobsFile.Jobs[i]
		if job.InputFile == "" {
			return nil, errors.Errorf("job %d: input_file required", i)
		}
		if err := mergo.Merge(job, Job{
			Name:         job.InputFile,
			OutputFormat: jobsFile.Defaults.OutputFormat,
		}); err != nil {
			return nil, err
		}
		if job.OutputFormat != OutputFormatText && job.OutputFormat != OutputFormatJSON {
			return nil, errors.Errorf("job %s: unknown output_format %q", job.Name, job.OutputFormat)
		}
		if job.Options, err = job.Spec.apply(defaults); err != nil {
			return nil, errors.Wrapf(err, "job %s", job.Name)
		}
		if err := job.Options.Validate(); err != nil {
			return nil, errors.Wrapf(err, "job %s", job.Name)
		}
	}
	return jobsFile.Jobs, nil
}

func ReadJobsFile(path string, fallback P.Options) ([]Job, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJobs(data, fallback)
}
