package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/nexium/recipe-service/internal/database"
)

func main() {
	mongoMode := flag.Bool("mongo", false, "create MongoDB indexes instead of applying the Postgres schema")
	dir := flag.String("dir", "scripts/migrations", "directory holding *.sql migrations")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	if *mongoMode {
		err = ensureMongoIndexes(ctx)
	} else {
		err = applyPostgresMigrations(ctx, *dir)
	}
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func ensureMongoIndexes(ctx context.Context) error {
	dbName := os.Getenv("MONGO_DB_NAME")
	if dbName == "" {
		dbName = "recipes"
	}

	db, err := database.NewMongoDB(ctx, os.Getenv("MONGO_DB_URI"), dbName)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}
	slog.Info("mongo indexes created", "database", dbName)
	return nil
}

func applyPostgresMigrations(ctx context.Context, dir string) error {
	db, err := database.NewPostgresDB(ctx, os.Getenv("POSTGRES_DB_URL"))
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		migrationSQL, err := os.ReadFile(file)
		if err != nil {
			return err
		}

		err = db.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, string(migrationSQL))
			return err
		})
		if err != nil {
			return err
		}
		slog.Info("migration applied", "file", filepath.Base(file))
	}
	return nil
}
