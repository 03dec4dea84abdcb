package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/analysis"
	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/dataset"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/coldfront-analytics/dryice-backend/internal/forecast"
	"github.com/coldfront-analytics/dryice-backend/internal/ledger"
	"github.com/coldfront-analytics/dryice-backend/internal/report"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newOrdersFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "orders",
		Usage:   "Path to the order history CSV",
		Value:   "./data/orders.csv",
		EnvVars: []string{"APP_ORDERS_FILE"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func loadOrders(c *cli.Context, cfg *config.Config) ([]domain.Order, *dataset.Loader, error) {
	loader, err := dataset.NewLoader(cfg.Inventory, cfg.App.WindowStart, cfg.App.WindowEnd)
	if err != nil {
		return nil, nil, err
	}
	orders, err := loader.LoadFile(c.String("orders"))
	if err != nil {
		return nil, nil, err
	}
	return orders, loader, nil
}

func runKPIs(c *cli.Context) error {
	cfg := config.Load()
	orders, _, err := loadOrders(c, cfg)
	if err != nil {
		return err
	}

	kpis, err := analysis.NewCalculator(cfg.Inventory).Snapshot(orders)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(kpis)
}

func runReport(c *cli.Context) error {
	cfg := config.Load()
	orders, loader, err := loadOrders(c, cfg)
	if err != nil {
		return err
	}
	windowStart, windowEnd := loader.Window()

	calc := analysis.NewCalculator(cfg.Inventory)
	engine := analysis.NewEngine(cfg.Inventory)

	kpis, err := calc.Snapshot(orders)
	if err != nil {
		return err
	}
	policy, err := engine.Evaluate(kpis, orders)
	if err != nil {
		return err
	}

	led := ledger.New(c.Float64("initial-stock"), ledger.ThresholdFunc(func() (float64, float64, error) {
		return engine.Thresholds(kpis, orders)
	}))
	stock, err := led.Status()
	if err != nil {
		return err
	}

	forecastResult := domain.ForecastResult{Available: false}
	ensemble := forecast.DefaultEnsemble()
	if err := ensemble.Fit(orders); err == nil {
		if points, err := ensemble.Predict(c.Int("forecast-days")); err == nil {
			forecastResult = domain.ForecastResult{
				Available: true,
				Model:     ensemble.Name(),
				Points:    points,
			}
		}
	}

	generator, err := report.NewGenerator(c.String("report-dir"), nil)
	if err != nil {
		return err
	}

	path, err := generator.Generate(c.Context, report.Data{
		Period:      fmt.Sprintf("%s to %s", windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02")),
		GeneratedAt: time.Now(),
		Params:      cfg.Inventory,
		KPIs:        kpis,
		Policy:      policy,
		Stock:       stock,
		Forecast:    forecastResult,
	})
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

func runArchive(c *cli.Context) error {
	cfg := config.Load()
	orders, _, err := loadOrders(c, cfg)
	if err != nil {
		return err
	}

	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(c.Context, `
		INSERT INTO orders (order_date, quantity_kg, containers_used, effective_quantity, total_cost)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.ExecContext(c.Context, o.Date, o.QuantityKg, o.ContainersUsed,
			o.EffectiveQuantity, o.TotalCost); err != nil {
			return fmt.Errorf("failed to insert order on %s: %w", o.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Printf("archived %d orders", len(orders))
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "report",
		Usage: "Run the inventory analysis from the command line",
		Commands: []*cli.Command{
			{
				Name:   "kpis",
				Usage:  "Print the KPI snapshot as JSON",
				Flags:  []cli.Flag{newOrdersFlag()},
				Action: runKPIs,
			},
			{
				Name:  "generate",
				Usage: "Generate the full analysis report",
				Flags: []cli.Flag{
					newOrdersFlag(),
					&cli.StringFlag{
						Name:    "report-dir",
						Usage:   "Directory to write the report into",
						Value:   "./reports",
						EnvVars: []string{"APP_REPORT_DIR"},
					},
					&cli.Float64Flag{
						Name:  "initial-stock",
						Usage: "Opening stock balance in kg",
						Value: 2000,
					},
					&cli.IntFlag{
						Name:  "forecast-days",
						Usage: "Forecast horizon in days",
						Value: 30,
					},
				},
				Action: runReport,
			},
			{
				Name:  "archive",
				Usage: "Archive the order CSV into the database",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newOrdersFlag(),
				},
				Before: initDB,
				After:  closeDB,
				Action: runArchive,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
