// Command admin runs operator tasks against the configured store.
//
//	admin migrate
//	admin create-admin --email ops@example.com --password ... --name Ops --phone 555
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"produce-market/internal/app"
	"produce-market/internal/core/config"
	"produce-market/internal/core/logger"
	"produce-market/internal/domain"
	"produce-market/internal/service"
)

const usage = `usage: admin [--config path] <command> [flags]

commands:
  migrate        create tables or indexes for the configured driver
  create-admin   create an admin account (--email --password --name --phone)
`

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("admin", pflag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage); fs.PrintDefaults() }
	fs.String("config", "", "config file (defaults to CONFIG_PATH or ./configs/config.local.yaml)")
	fs.String("email", "", "admin email")
	fs.String("password", "", "admin password")
	fs.String("name", "", "admin full name")
	fs.String("phone", "", "admin phone number")
	fs.Duration("timeout", 30*time.Second, "overall deadline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("ADMIN")
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one command, got %d", fs.NArg())
	}

	cfg, err := config.Read(v.GetString("config"))
	if err != nil {
		return err
	}
	// migrations are explicit here
	cfg.DB.AutoMigrate = false
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration("timeout"))
	defer cancel()

	b, err := app.OpenBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close(context.Background()) }()

	switch cmd := fs.Arg(0); cmd {
	case "migrate":
		if err := b.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrate done", zap.String("driver", b.Driver))
		return nil
	case "create-admin":
		users := service.NewUserService(b.Store.Users, app.NewJWTer(cfg.JWT), log)
		u, err := users.Register(ctx, service.RegisterInput{
			FullName:    v.GetString("name"),
			Email:       v.GetString("email"),
			PhoneNumber: v.GetString("phone"),
			Password:    v.GetString("password"),
			Role:        domain.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("create-admin: %w", err)
		}
		log.Info("admin created", zap.String("id", u.ID), zap.String("email", u.Email))
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
