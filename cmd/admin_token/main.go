// Command admin_token mints an admin bearer token signed with ADMIN_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"fraudgen/internal/config"
	"fraudgen/internal/logger"
	"fraudgen/internal/utils"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	subject := flag.String("subject", "admin", "token subject")
	ttl := flag.Duration("ttl", cfg.Auth.TokenTTL, "token lifetime")
	flag.Parse()

	flush, err := logger.Init(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	if cfg.Auth.AdminJWTSecret == "" {
		zap.L().Fatal("ADMIN_JWT_SECRET must be set in environment")
	}

	token, err := utils.GenerateAdminToken(cfg.Auth.AdminJWTSecret, *subject, *ttl)
	if err != nil {
		zap.L().Fatal("failed to sign admin token", zap.Error(err))
	}

	zap.L().Info("admin token issued", zap.String("subject", *subject), zap.Duration("ttl", *ttl))
	fmt.Println(token)
}
