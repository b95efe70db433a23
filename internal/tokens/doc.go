// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package tokens provides the Go representation of a design-token variables
// export. Its core purpose is to give every other package a strongly-typed,
// in-memory view of the document while still round-tripping anything the
// tool does not understand.
//
// # Core Concepts
//
//   - Document: The root container. An ordered list of collections.
//
//   - Collection: A named group of variables sharing a set of modes. The
//     collection name (e.g. "00_Semi semantics", "9 Theme") is the key every
//     command uses to select what it works on.
//
//   - Mode: One axis value of variation (Light/Dark, MyJio/JioFinance).
//
//   - Variable: A named token with one Value per mode id.
//
//   - Value: A tagged union. Either a direct RGBA color, an alias to another
//     variable id, or an opaque shape that is kept verbatim.
//
// Why preserve unknown fields?
//
// Exports carry fields this tool never reads (descriptions, scopes, code
// syntax, non-color values). Repair writes the document back, so every field
// that is not modelled explicitly is kept as raw JSON and emitted unchanged.
// A value that was never replaced is re-emitted byte for byte.
package tokens
