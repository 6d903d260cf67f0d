package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/config"
	"github.com/diewo77/food-tracker/internal/db"
	"github.com/diewo77/food-tracker/internal/models"
	"github.com/diewo77/food-tracker/internal/nutrition"
	"github.com/diewo77/food-tracker/internal/services"
	"github.com/diewo77/food-tracker/view"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type app struct {
	cfg         *config.Config
	dsn         string
	catalogPath string
	conn        *gorm.DB
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}
	root := &cobra.Command{
		Use:           "foodctl",
		Short:         "Administer the food tracker database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.dsn, "dsn", a.cfg.Database.DSN, "database DSN (sqlite path or postgres URL)")
	root.PersistentFlags().StringVar(&a.catalogPath, "catalog", a.cfg.App.CatalogPath, "food catalog CSV (empty for the built-in one)")
	root.AddCommand(a.migrateCmd(), a.catalogCmd(), a.userAddCmd(), a.logCmd())
	for _, sub := range root.Commands() {
		sub.RunE = a.closing(sub.RunE)
	}
	return root
}

// open connects once and brings the schema up to date unless sqlOnly is set,
// in which case only the embedded SQL migrations are applied.
func (a *app) open(sqlOnly bool) (*gorm.DB, error) {
	if a.conn != nil {
		return a.conn, nil
	}
	dbCfg := a.cfg.Database
	dbCfg.DSN = a.dsn
	conn, err := db.Connect(dbCfg)
	if err != nil {
		return nil, err
	}
	if err := db.Prepare(conn, a.dsn, sqlOnly || a.cfg.App.Migrations); err != nil {
		if sqlDB, derr := conn.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	a.conn = conn
	return conn, nil
}

// closing releases the connection after run, whether or not it failed.
// cobra runs no post-run hooks after a failed RunE.
func (a *app) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if cerr := a.close(); err == nil {
			err = cerr
		}
		return err
	}
}

func (a *app) close() error {
	if a.conn == nil {
		return nil
	}
	sqlDB, err := a.conn.DB()
	if err != nil {
		return err
	}
	a.conn = nil
	return sqlDB.Close()
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.open(true); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
			return nil
		},
	}
}

func (a *app) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the food catalog (macros per 100g)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Load(a.catalogPath)
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Food", "Fats", "Carbs", "Proteins", "Calories"})
			for _, e := range cat.Entries() {
				t.AppendRow(table.Row{e.FoodName, num(e.Fats), num(e.Carbs), num(e.Proteins), num(e.Calories)})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("%d foods", cat.Len())})
			t.Render()
			return nil
		},
	}
}

func (a *app) userAddCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username is required")
			}
			if password == "" {
				p, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				password = p
			}
			if password == "" {
				return errors.New("password is required")
			}
			conn, err := a.open(false)
			if err != nil {
				return err
			}
			u, err := services.NewUserService(conn).Create(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("useradd %s: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

// promptPassword asks twice with masked input.
func promptPassword(in io.Reader, out io.Writer) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:     io.NopCloser(in),
		Stdout:    out,
		Stderr:    out,
		EOFPrompt: "exit",
	})
	if err != nil {
		return "", fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()
	first, err := rl.ReadPassword("Password: ")
	if err != nil {
		return "", err
	}
	second, err := rl.ReadPassword("Repeat password: ")
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func (a *app) logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <username>",
		Short: "Print a user's food log and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.open(false)
			if err != nil {
				return err
			}
			rows, err := userLog(cmd.Context(), conn, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No entries for %s\n", args[0])
				return nil
			}
			t := newTable(out)
			t.AppendHeader(table.Row{"#", "Food", "Weight (g)", "Fats", "Carbs", "Proteins", "Calories", "Logged at"})
			for i, r := range rows {
				t.AppendRow(table.Row{i + 1, r.FoodName, num(r.Weight), num(r.Fats), num(r.Carbs), num(r.Proteins), num(r.Calories), r.CreatedAt.Format("2006-01-02 15:04")})
			}
			tot := nutrition.Sum(rows)
			t.AppendFooter(table.Row{"", "Total", "", num(tot.Fats), num(tot.Carbs), num(tot.Proteins), num(tot.Calories), ""})
			t.Render()
			return nil
		},
	}
}

func userLog(ctx context.Context, conn *gorm.DB, username string) ([]models.FoodLog, error) {
	u, err := services.NewUserService(conn).FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("unknown user %q", username)
	}
	return services.NewFoodLogService(conn).ListForUser(ctx, u.ID)
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	return t
}

func num(v float64) string { return view.FormatNumber(v) }
