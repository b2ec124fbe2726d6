package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"gimbal"
)

func main() {
	// Best-effort .env loading; absence is fine.
	godotenv.Load()

	configFile := flag.String("config", "", "Path to gimbal.yaml config file")
	host := flag.String("host", "", "Listen host (env: HOST, default: 0.0.0.0)")
	port := flag.Int("port", 0, "Listen port (env: PORT, default: 8000)")
	rootDir := flag.String("root", "", "Workspace root (env: GIMBAL_HOME, default: ~/.gimbal)")
	runtimeCmd := flag.String("runtime", "", "Agent runtime executable (env: GIMBAL_RUNTIME, default: claude)")
	flag.Parse()

	cfg, err := gimbal.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// CLI flags override file and env
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *rootDir != "" {
		cfg.RootDir = *rootDir
	}
	if *runtimeCmd != "" {
		cfg.RuntimeCommand = *runtimeCmd
	}

	if err := gimbal.New(cfg).Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
