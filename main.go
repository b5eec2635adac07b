// Package main provides the entry point for the Mushya Portal backend.
// It starts a Fiber web server exposing the portal's JSON API for
// sign-in, user and role administration, departments, the password
// vault and portal settings. State is persisted through a pluggable
// key-value storage backend.
package main

import (
	"os"

	"github.com/mushya-portal/mushya-portal/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
