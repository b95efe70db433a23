// Package report turns validation, repair, trace and inspection results into
// console text, JSON, YAML or a long-form Markdown document.
//
// Console text follows a fixed layout (section rules, per-collection blocks,
// a summary) and is styled with lipgloss when the writer is a terminal.
// Markdown reports can be rendered for the terminal with Render.
package report
