// Package repair replaces corrupted color values with derived direct colors.
//
// Two faults are repaired: values that resolve to the white placeholder
// (r=g=b=1.0) and alias chains that end in an external reference. The fault
// is fixed where it originates, at the variable whose own value is white or
// external. A variable further down an alias chain is only rewritten when
// that origin cannot be repaired (out of scope, skipped, or a different
// fault kind disabled by options).
//
// A replacement color is derived from the variable's parsed name, in order:
//
//  1. the reference palette entry for family and step, rounded to 4 decimals;
//  2. the RGB of a working sibling variable with the same family and step;
//  3. the fallback family table (white for steps at or above the configured
//     minimum);
//  4. the fallback family with a warning.
//
// The replacement overwrites every mode of the variable. Alpha is preserved
// from modes holding a direct color and taken from the weight table
// otherwise.
//
// Repair never mutates its input: it deep-copies the document and returns
// the copy.
package repair
