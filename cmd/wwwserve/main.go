// Package main provides the wwwserve binary.
// It serves static files from a document root over a minimal HTTP/1.1 subset.
package main

import (
	"log"
	"os"

	"github.com/clean-dependency-project/wwwserve/internal/cli"
)

func main() {
	app := cli.NewApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
