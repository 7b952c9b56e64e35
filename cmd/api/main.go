package main

import (
	"os"

	"github.com/ecerdem/movie-ticket-booking/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
