/*
Package resolve follows alias chains to the direct color they stand for and
classifies the chains that never get there.

A variable's value for a mode is either a direct color or an alias to another
variable id, resolved again under the same mode id. Resolution walks that
chain with an explicit loop and a visited set scoped to the current path, so
a cycle is reported as soon as an id repeats and two unrelated walks never
share state.

Failure reasons:

  - NotFound: the id is not in the document.
  - NoValueForMode: the variable has no value for the mode being resolved.
  - ExternalReference: the alias points into a foreign library (id contains `/`).
  - Circular: the id is already on the current path.
  - UnknownValueShape: the value is neither a color nor an alias.
  - DepthExceeded: the chain is longer than the hop cap. Classified as Circular.

Every Result carries the path of variable names it visited plus a terminal
marker step (`CIRCULAR: <id>`, `NOT_FOUND: <id>`, ...) that reports join with
" -> ".

On top of single resolutions the package validates whole collections,
producing the counts the CLI prints and records.
*/
package resolve
