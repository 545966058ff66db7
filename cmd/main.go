package main

import (
	"log"

	"github.com/Solvro/backend-testownik-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("testownik: %v", err)
	}
}
