package main

import (
	"log"
	"net/http"

	"litsearch/internal/api"
	"litsearch/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	log.Printf("litsearch api listening on %s embed_provider=%q llm_provider=%q", cfg.APIAddr, cfg.EmbedProvider, cfg.LLMProvider)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
