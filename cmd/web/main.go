package main

import "cobfacil_backend/internal/app"

func main() {
	app.Run()
}
