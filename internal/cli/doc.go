// Package cli builds the varcar command tree and maps command-line usage
// onto app.Config and the App command methods.
package cli
