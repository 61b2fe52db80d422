// Package render turns built job descriptors into a runnable bash script.
// Stale jobs contribute a `module load` preamble (versions resolved from
// settings) followed by their command; up-to-date jobs are rendered as a
// skip comment so the script documents what was already satisfied.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/seqpipego/internal/config"
	"github.com/vk/seqpipego/internal/job"
)

// scriptHeader opens every generated script. Commands abort the run on the
// first failure, matching how the jobs would behave under a scheduler.
const scriptHeader = "#!/bin/bash\nset -eu\n"

// Script writes the jobs, in the order given, as one bash script. Module
// references are resolved through the settings model; an unresolvable
// reference is an error, since the command could not run without it.
func Script(w io.Writer, cfg *config.Model, jobs []*job.Job) error {
	if _, err := io.WriteString(w, scriptHeader); err != nil {
		return err
	}

	for _, j := range jobs {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}

		if j.Command == "" {
			if _, err := fmt.Fprintf(w, "# %s: up to date, skipping\n", j.Name); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "# STEP: %s\n", j.Name); err != nil {
			return err
		}

		if len(j.Modules) > 0 {
			versions := make([]string, 0, len(j.Modules))
			for _, ref := range j.Modules {
				version, err := cfg.RequiredParam(ref.Section, ref.Key)
				if err != nil {
					return fmt.Errorf("job %q: cannot resolve module reference: %w", j.Name, err)
				}
				versions = append(versions, version)
			}
			if _, err := fmt.Fprintf(w, "module load %s\n", strings.Join(versions, " ")); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w, j.Command); err != nil {
			return err
		}
	}

	return nil
}
