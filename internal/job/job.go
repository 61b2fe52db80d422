// Package job defines the unit-of-work descriptor produced by step builders.
//
// A Job tracks declared input and output files, references to versioned
// runtime modules, and a shell command string. Jobs are descriptors only:
// nothing in this package (or this program) executes the command. Freshness
// is decided by comparing modification timestamps of the declared outputs
// against the declared inputs, so a job whose outputs already exist and are
// newer than its inputs carries no command at all.
package job

import (
	"time"

	"github.com/vk/seqpipego/internal/config"
	"github.com/vk/seqpipego/internal/fsutil"
)

// Job is a unit-of-work descriptor. It is created fresh per builder call,
// returned to the caller, and never retained internally.
type Job struct {
	// Name identifies the job in rendered scripts and the run manifest.
	Name string

	// InputFiles and OutputFiles are the paths used for the freshness check.
	InputFiles  []string
	OutputFiles []string

	// Modules lists the versioned runtime modules the command requires,
	// as (section, key) references into the settings model.
	Modules []config.ModuleRef

	// Command is the shell command to run, or empty for an up-to-date job.
	Command string
}

// New creates a new, empty Job with the given name.
func New(name string) *Job {
	return &Job{Name: name}
}

// DeclareFiles registers the input and output paths used by UpToDate.
func (j *Job) DeclareFiles(inputs, outputs []string) {
	j.InputFiles = append(j.InputFiles, inputs...)
	j.OutputFiles = append(j.OutputFiles, outputs...)
}

// DeclareModules records references to the runtime modules the job's command
// depends on. Versions are resolved from settings at render time.
func (j *Job) DeclareModules(refs ...config.ModuleRef) {
	j.Modules = append(j.Modules, refs...)
}

// AppendCommand attaches a command to the job. Multiple appended commands
// are joined with newlines in the order they were added.
func (j *Job) AppendCommand(command string) {
	if j.Command != "" {
		j.Command += "\n"
	}
	j.Command += command
}

// UpToDate reports whether the job's declared outputs are all present and at
// least as new as its newest input. A job with no declared outputs is never
// up to date. A declared input that is missing makes the job stale, since
// whatever produces it will run first and touch it.
func (j *Job) UpToDate() (bool, error) {
	if len(j.OutputFiles) == 0 {
		return false, nil
	}

	var newestInput time.Time
	for _, input := range j.InputFiles {
		mtime, exists, err := fsutil.ModTime(input)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
		if mtime.After(newestInput) {
			newestInput = mtime
		}
	}

	for _, output := range j.OutputFiles {
		mtime, exists, err := fsutil.ModTime(output)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
		if mtime.Before(newestInput) {
			return false, nil
		}
	}

	return true, nil
}
