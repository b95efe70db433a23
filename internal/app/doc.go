// Package app contains the core application logic. It defines the App
// struct, its configuration and one method per command (validate, repair,
// trace, report, convert, inspect, history), decoupled from the CLI that
// calls them.
package app
