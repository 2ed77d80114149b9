package main

import (
	"os"

	"github.com/mrengworks/catalog/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
