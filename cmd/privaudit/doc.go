// Package privaudit provides the command-line interface for privaudit. The
// root command runs the audit; subcommands manage the allowlist and config.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/privaudit/cmd/privaudit"
//	func main() { privaudit.Execute() }
package privaudit
