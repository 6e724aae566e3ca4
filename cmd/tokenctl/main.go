package main

import (
	"context"
	"log"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"

	"go.pilab.hu/tokenstore/cmd/tokenctl/cmd"
	"go.pilab.hu/tokenstore/tracing"
)

func main() {
	// Spans go to stderr so command output stays machine readable.
	tp, err := tracing.InitTracerProvider("tokenctl", stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		log.Fatalf("Failed to initialize TracerProvider: %v", err)
	}

	code := cmd.Execute()

	// Use a background context for shutdown, the command context is done.
	if err := tp.Shutdown(context.Background()); err != nil {
		log.Printf("Error shutting down TracerProvider: %v", err)
	}

	os.Exit(code)
}
