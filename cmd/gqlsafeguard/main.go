// Command gqlsafeguard scans TypeScript/TSX sources for GraphQL operations
// with error-handling directives unprotected by @catch.
package main

import "github.com/gqlsafeguard/gqlsafeguard/cmd"

func main() {
	cmd.Execute()
}
