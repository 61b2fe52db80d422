// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package pipeline provides the Go struct representation of a pipeline
// definition. A pipeline is a set of `step "<type>" "<name>"` blocks, each
// carrying an optional `depends_on` list and a free-form `arguments` block
// whose contents are defined by the step type's builder.
//
// The model deliberately keeps the `arguments` block as a raw body: the
// schema of a step's arguments belongs to the builder registered for its
// type, not to the pipeline format. A later stage decodes the body against
// the builder's argument struct.
package pipeline
