// migrate aplica las migraciones embebidas (goose) y crea el primer
// administrador, ya que el alta de usuarios requiere un admin autenticado.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate status
//	go run ./cmd/migrate seed-admin <email> <password> [nombre]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Clicheria-api/internal/application/auth"
	"github.com/jhoicas/Clicheria-api/internal/application/dto"
	"github.com/jhoicas/Clicheria-api/internal/domain"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
	"github.com/jhoicas/Clicheria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Clicheria-api/pkg/config"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate <up|down|status|version|redo|reset|seed-admin> [args]")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	command, args := os.Args[1], os.Args[2:]
	if command == "seed-admin" {
		if err := seedAdmin(ctx, cfg, args); err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("email", args[0]).Msg("administrador creado")
		return
	}

	if err := postgres.Migrate(ctx, cfg.DB.ConnectionString(), command, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migración")
	}
	log.Info().Str("command", command).Msg("migración completada")
}

func seedAdmin(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("uso: seed-admin <email> <password> [nombre]")
	}
	name := "Administrador"
	if len(args) > 2 {
		name = args[2]
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{
		Email: args[0], Password: args[1], Name: name, Role: entity.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		return fmt.Errorf("%s ya existe: %w", args[0], err)
	}
	return err
}
