package main

import "github.com/bitfaber/preventivo/internal/app"

func main() {
	app.Run()
}
