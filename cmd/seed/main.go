package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/PelicanED-online/pelicaned-backend/internal/app"
	"github.com/PelicanED-online/pelicaned-backend/internal/seed"
)

func main() {
	path := flag.String("f", "cmd/seed/fixture.example.yaml", "seed fixture (YAML)")
	flag.Parse()

	fixture, err := seed.LoadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	_, err = seed.Apply(context.Background(), a.Log, seed.Deps{
		Org:          a.Services.Org,
		Curriculum:   a.Services.Curriculum,
		LessonPlan:   a.Services.LessonPlan,
		AuthProvider: a.Services.AuthProvider,
	}, fixture)
	if err != nil {
		a.Log.Error("seed failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}
