// Command admin creates promptkeeper accounts from a terminal. It reads the
// same configuration as the server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/promptkeeper/internal/admin"
	"github.com/dmitrijs2005/promptkeeper/internal/logging"
	"github.com/dmitrijs2005/promptkeeper/internal/server/auth"
	"github.com/dmitrijs2005/promptkeeper/internal/server/config"
	"github.com/dmitrijs2005/promptkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/promptkeeper/internal/server/services"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := admin.CheckDSN(cfg.DatabaseDSN); err != nil {
		return err
	}

	rm, err := repomanager.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer rm.Close()

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)
	codec := auth.NewCodec([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	svc := services.NewUserService(rm.Users(), auth.NewBcryptHasher(), codec, logger)

	return admin.NewApp(svc, os.Stdin, os.Stdout, int(os.Stdin.Fd())).CreateUser(ctx)
}
