package main

import (
	"clinic-scheduler/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		logrus.Fatalf("Application stopped with error: %v", err)
	}
}
