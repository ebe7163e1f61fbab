package main

import (
	"fmt"
	"log"

	"github.com/ayusman/handpong/internal/app"
	"github.com/ayusman/handpong/internal/config"
	"github.com/ayusman/handpong/internal/detector"
)

func main() {
	fmt.Println("handpong - hand-tracked pong")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	d, err := detector.NewMediaPipeDetector(app.DetectorConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to start hand detection: %v", err)
	}
	log.Println("Using MediaPipe hand detection")

	if err := app.New(cfg, d).Run(); err != nil {
		log.Fatalf("Game failed: %v", err)
	}
}
