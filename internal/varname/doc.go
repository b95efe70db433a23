// internal/varname/doc.go

/*
Package varname parses hierarchical variable names into a structured,
tagged record.

Variable names are `/`-separated paths, e.g. `Grey/2500/Surface` or
`Indigo/1000/[Semi semantics] Bold`. The first segment names a color family,
the second a palette step and the third a weight property. Names that do not
follow the layout are returned with an explicit Unparsed kind instead of a
nil-able pair of strings.

The package also owns the external-id marker rule: variable ids containing
`/` point into a foreign library and cannot be resolved locally.
*/
package varname
