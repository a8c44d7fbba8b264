package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"rentalsBack/internal/config"
	"rentalsBack/internal/models"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/services"
	"rentalsBack/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLoggers() (infoLog, errorLog *log.Logger) {
	infoLog = log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)
	return infoLog, errorLog
}

func newRootCmd() *cobra.Command {
	var configPath, addr string

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Server.Address = addr
		}
		return runServer(cfg)
	}

	rootCmd := &cobra.Command{
		Use:          "rentals",
		Short:        "Property rental listings",
		SilenceUsage: true,
		RunE:         serve,
	}
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config/config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to the YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP network address (overrides config)")

	rootCmd.AddCommand(serveCmd, initDBCmd(&configPath), createUserCmd(&configPath))
	return rootCmd
}

func runServer(cfg config.Config) error {
	infoLog, errorLog := newLoggers()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	infoLog.Printf("Successfully connected to %s database", cfg.Database.Driver)

	app, err := initializeApp(ctx, cfg, db, errorLog, infoLog)
	if err != nil {
		return err
	}
	defer app.close()

	if app.memorySessions != nil {
		startSessionCleaner(ctx, app.memorySessions, infoLog)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		ErrorLog:     errorLog,
		Handler:      app.routes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		infoLog.Printf("Starting server on %s", cfg.Server.Address)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	infoLog.Println("Shutting down server...")
	app.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	infoLog.Println("Server exited cleanly.")
	return nil
}

func initDBCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the database tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := storage.Open(cmd.Context(), cfg.Database.Driver, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := storage.EnsureSchema(cmd.Context(), db, cfg.Database.Driver); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema applied to %s database\n", cfg.Database.Driver)
			return nil
		},
	}
}

func createUserCmd(configPath *string) *cobra.Command {
	var (
		user     models.User
		password string
	)

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create an account, e.g. a staff or superuser account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user.Username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			switch user.Role {
			case models.RoleOwner, models.RoleTenant:
			default:
				return fmt.Errorf("unknown role %q", user.Role)
			}

			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := storage.Open(cmd.Context(), cfg.Database.Driver, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			users := &services.UserService{UserRepo: &repositories.UserRepository{DB: db}}
			user.IsActive = true
			created, err := users.CreateUser(cmd.Context(), user, password)
			if errors.Is(err, models.ErrDuplicateUsername) {
				return fmt.Errorf("user %q already exists", user.Username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", created.Username, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user.Username, "username", "", "login name")
	cmd.Flags().StringVar(&user.Email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&user.Role, "role", models.RoleOwner, "owner or tenant")
	cmd.Flags().BoolVar(&user.IsStaff, "staff", false, "mark the account as staff")
	cmd.Flags().BoolVar(&user.IsSuperuser, "superuser", false, "mark the account as superuser")
	return cmd
}
