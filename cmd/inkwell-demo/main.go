package main

import (
	"log"
	"os"

	"github.com/existflow/inkwell/internal/demo"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := demo.New()

	log.Printf("Inkwell demo API starting on :%s (in-memory, state resets on restart)", port)
	log.Printf("Demo account: demo@inkwell.local / demo-password")
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
