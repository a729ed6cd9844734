package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing seed CSV files",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with initial data",
		Commands: []*cli.Command{
			{
				Name:   "master",
				Usage:  "Seed master data (stores, products, inventory levels)",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(seedMasterData),
			},
			{
				Name:   "sales",
				Usage:  "Seed historical sales and brand sales metrics",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(seedSalesData),
			},
			{
				Name:   "goals",
				Usage:  "Seed rep goals",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(seedGoals),
			},
			{
				Name:  "all",
				Usage: "Seed master data, sales history and goals",
				Flags: []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(func(ctx context.Context, tx *sql.Tx, dataDir string) error {
					if err := seedMasterData(ctx, tx, dataDir); err != nil {
						return err
					}
					if err := seedSalesData(ctx, tx, dataDir); err != nil {
						return err
					}
					return seedGoals(ctx, tx, dataDir)
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type seedFunc func(ctx context.Context, tx *sql.Tx, dataDir string) error

// withTx opens the database, runs the seeder inside one transaction and
// commits only when every file lands cleanly.
func withTx(fn seedFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := sql.Open("pgx", c.String("db-url"))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		ctx := context.Background()
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		log.Println("Starting database seeding...")
		if err := fn(ctx, tx, c.String("data-dir")); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		log.Println("Database seeding completed successfully!")
		return nil
	}
}

func seedMasterData(ctx context.Context, tx *sql.Tx, dataDir string) error {
	if err := seedTable(ctx, tx, "stores",
		[]string{"id", "name", "address"},
		"id",
		filepath.Join(dataDir, "stores.csv")); err != nil {
		return fmt.Errorf("failed to seed stores: %w", err)
	}

	if err := seedTable(ctx, tx, "products",
		[]string{"id", "sku", "name", "brand", "style_number", "upc_code", "default_min_stock"},
		"id",
		filepath.Join(dataDir, "products.csv")); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	if err := seedTable(ctx, tx, "store_products",
		[]string{"store_id", "product_id", "quantity", "minimum_stock"},
		"store_id, product_id",
		filepath.Join(dataDir, "store_products.csv")); err != nil {
		return fmt.Errorf("failed to seed store products: %w", err)
	}

	return nil
}

func seedSalesData(ctx context.Context, tx *sql.Tx, dataDir string) error {
	if err := seedTable(ctx, tx, "historical_sales",
		[]string{"store_id", "brand", "date", "units", "revenue"},
		"store_id, brand, date",
		filepath.Join(dataDir, "historical_sales.csv")); err != nil {
		return fmt.Errorf("failed to seed historical sales: %w", err)
	}

	if err := seedTable(ctx, tx, "sales_metrics",
		[]string{"store_id", "brand", "date", "ao_sales", "prebook_sales", "total_units"},
		"store_id, brand, date",
		filepath.Join(dataDir, "sales_metrics.csv")); err != nil {
		return fmt.Errorf("failed to seed sales metrics: %w", err)
	}

	return nil
}

func seedGoals(ctx context.Context, tx *sql.Tx, dataDir string) error {
	if err := seedTable(ctx, tx, "rep_goals",
		[]string{"rep_id", "store_id", "brand", "goal_type", "goal_amount", "goal_month"},
		"rep_id, store_id, brand, goal_type, goal_month",
		filepath.Join(dataDir, "rep_goals.csv")); err != nil {
		return fmt.Errorf("failed to seed rep goals: %w", err)
	}
	return nil
}

// seedTable upserts one CSV file into one table. The CSV header names must
// match the given columns; extra columns in the file are ignored.
func seedTable(ctx context.Context, tx *sql.Tx, tableName string, columns []string, conflictKey, filePath string) error {
	log.Printf("Seeding %s from %s\n", tableName, filePath)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Skipping %s: no seed file at %s\n", tableName, filePath)
			return nil
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	query := buildUpsertQuery(tableName, columns, conflictKey)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		args := make([]interface{}, len(columns))
		for i, col := range columns {
			idx := columnIndex(header, col)
			if idx < 0 || idx >= len(record) {
				return fmt.Errorf("missing column %q in %s", col, filePath)
			}
			args[i] = nullIfEmpty(record[idx])
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert record into %s: %w", tableName, err)
		}
	}

	log.Printf("Successfully seeded %s\n", tableName)
	return nil
}

func buildUpsertQuery(tableName string, columns []string, conflictKey string) string {
	placeholders := make([]string, len(columns))
	updates := make([]string, 0, len(columns))
	conflictCols := map[string]bool{}
	for _, c := range strings.Split(conflictKey, ",") {
		conflictCols[strings.TrimSpace(c)] = true
	}

	for i, col := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if !conflictCols[col] {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s)",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		conflictKey,
	)
	if len(updates) == 0 {
		return query + " DO NOTHING"
	}
	return query + " DO UPDATE SET " + strings.Join(updates, ", ")
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// nullIfEmpty maps empty CSV cells to NULL so optional columns seed cleanly.
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
