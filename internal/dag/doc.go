// Package dag implements the dependency graph between pipeline steps. It
// provides node and edge construction from `depends_on` declarations, cycle
// detection, and a deterministic topological ordering that fixes the order
// in which step jobs are built and rendered.
package dag
