package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"paydesk/internal/app/server"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/statement"
	"paydesk/internal/platform/config"
	"paydesk/internal/platform/db"
)

var rootCmd = &cobra.Command{
	Use:           "paydesk",
	Short:         "Payroll and HR administration API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

var slipCmd = &cobra.Command{
	Use:   "slip",
	Short: "Render a payment JSON document as a payment slip",
	Long: `Render a payment, as returned by GET /api/v1/payments/{id}, as a
payment slip. The text slip is printed to stdout; --pdf also writes a PDF.`,
	RunE: runSlip,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(slipCmd)

	slipCmd.Flags().StringP("file", "f", "", "Payment JSON file")
	slipCmd.Flags().String("pdf", "", "Write the slip as PDF to this path")
	_ = slipCmd.MarkFlagRequired("file")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("paydesk failed", "err", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(cmd.Context())
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool, os.DirFS(cfg.MigrationsDir)); err != nil {
		return err
	}
	slog.Info("migrations applied", "dir", cfg.MigrationsDir)
	return nil
}

func runSlip(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	pdfPath, _ := cmd.Flags().GetString("pdf")

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var payment payroll.Payment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := payment.Period.Validate(); err != nil {
		return err
	}

	slip := statement.Format(payment, payment.Period)
	fmt.Fprint(cmd.OutOrStdout(), slip.Text())

	if pdfPath == "" {
		return nil
	}
	out, err := os.Create(pdfPath)
	if err != nil {
		return err
	}
	if err := slip.WritePDF(out); err != nil {
		_ = out.Close()
		return fmt.Errorf("write pdf: %w", err)
	}
	return out.Close()
}
