package main

import "github.com/spectriclabs/heka-data-service/internal/app"

func main() {
	app.Run()
}
