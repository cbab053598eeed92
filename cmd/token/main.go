// Command token issues a signed API token for a client of the CAPM service.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	jwtmw "capm_backend/internal/platform/jwt"
)

func main() {
	sub := flag.String("sub", "", "client identifier stored in the sub claim")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}
	token, err := jwtmw.NewGenerator(secret, *ttl).GenerateToken(*sub)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
