// cmd/creditctl/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"credit-intake-client/internal/common/config"
	apperrors "credit-intake-client/internal/common/errors"
	"credit-intake-client/internal/common/logger"
	"credit-intake-client/internal/credstore"
	"credit-intake-client/internal/gateway"
	"credit-intake-client/internal/guard"
	"credit-intake-client/internal/indicators"
	"credit-intake-client/internal/intake"
	"credit-intake-client/internal/models"
	"credit-intake-client/internal/session"
)

const loginPath = "/admin"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: creditctl <command> [flags]

Commands:
  login      -u <username> -p <password>
  logout
  whoami
  branches
  submit     (see creditctl submit -h)
  simulate   -n <count>
  dashboard
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if cfg.Logging.Level == "debug" {
		shutdown, err := setupTracing()
		if err != nil {
			zapLog.Warn("tracing setup failed", zap.Error(err))
		} else {
			defer shutdown()
		}
	}

	store := newStore(cfg)
	gw := gateway.New(cfg.API, store, log)
	sess := session.NewManager(store, gw, log)
	gw.SetUnauthorizedHook(sess.HandleUnauthorized)

	intakeSvc := intake.NewService(gw, log)
	indicatorsSvc := indicators.NewService(gw, log)

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Warn("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()
	if err := run(ctx, os.Args[1], os.Args[2:], sess, intakeSvc, indicatorsSvc); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Humanize(err))
		os.Exit(1)
	}
}

func newStore(cfg *config.Config) credstore.Store {
	switch cfg.Credentials.Backend {
	case "redis":
		return credstore.NewRedisStore(cfg.Credentials.Redis)
	case "memory":
		return credstore.NewMemStore()
	default:
		return credstore.NewFileStore(cfg.Credentials.File.Path)
	}
}

func run(ctx context.Context, command string, args []string, sess *session.Manager, intakeSvc *intake.Service, indicatorsSvc *indicators.Service) error {
	switch command {
	case "login":
		return cmdLogin(ctx, args, sess)
	case "logout":
		sess.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return cmdWhoami(ctx, sess)
	case "branches":
		return cmdBranches(ctx, intakeSvc)
	case "submit":
		return cmdSubmit(ctx, args, intakeSvc)
	case "simulate":
		return cmdSimulate(ctx, args, intakeSvc)
	case "dashboard":
		return cmdDashboard(ctx, sess, indicatorsSvc)
	default:
		usage()
		return nil
	}
}

func cmdLogin(ctx context.Context, args []string, sess *session.Manager) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	fs.Parse(args)

	if *username == "" || *password == "" {
		return fmt.Errorf("both -u and -p are required")
	}
	if err := sess.Login(ctx, *username, *password); err != nil {
		return err
	}
	snap := sess.Snapshot()
	fmt.Printf("Logged in as %s <%s>\n", snap.Actor.Username, snap.Actor.Email)
	return nil
}

func cmdWhoami(ctx context.Context, sess *session.Manager) error {
	if sess.Resolve(ctx) != models.StatusAuthenticated {
		fmt.Println("Not logged in.")
		return nil
	}
	actor := sess.Snapshot().Actor
	fmt.Printf("%s <%s> (id %d)\n", actor.Username, actor.Email, actor.ID)
	return nil
}

func cmdBranches(ctx context.Context, svc *intake.Service) error {
	branches, err := svc.Branches(ctx)
	if err != nil {
		return err
	}
	for _, b := range branches {
		fmt.Printf("%3d  %-25s %-15s %s\n", b.ID, b.Nombre, b.Ciudad, b.Direccion)
	}
	return nil
}

func cmdSubmit(ctx context.Context, args []string, svc *intake.Service) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	var draft models.ApplicationDraft
	fs.StringVar(&draft.Nombre, "nombre", "", "first name")
	fs.StringVar(&draft.Apellido, "apellido", "", "surname")
	fs.StringVar(&draft.Email, "email", "", "email address")
	fs.StringVar(&draft.Telefono, "telefono", "", "phone (optional)")
	fs.StringVar(&draft.FechaNacimiento, "fecha-nacimiento", "", "birth date (YYYY-MM-DD)")
	fs.Float64Var(&draft.MontoSolicitado, "monto", 0, "requested amount")
	fs.Float64Var(&draft.IngresoMensual, "ingreso", 0, "monthly income")
	fs.IntVar(&draft.ScoreCrediticio, "score", 0, "credit score (300-850)")
	fs.BoolVar(&draft.TieneTarjeta, "tarjeta", false, "has a credit card")
	fs.BoolVar(&draft.TieneCreditoAuto, "credito-auto", false, "has an auto loan")
	fs.IntVar(&draft.PlazoMeses, "plazo", 12, "term in months (12/24/36/48/60)")
	fs.IntVar(&draft.SucursalID, "sucursal", 0, "branch id")
	fs.Parse(args)

	result, err := svc.Submit(ctx, draft)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func printResult(r *models.ApplicationResult) {
	fmt.Printf("Application #%d: %s\n", r.ID, strings.ToUpper(r.Estado))
	if r.Approved() {
		fmt.Printf("  Monthly payment:  %.2f\n", *r.CuotaMensual)
		fmt.Printf("  Annual rate:      %.2f%%\n", *r.TasaInteresAnual)
		fmt.Printf("  Total interest:   %.2f\n", *r.TotalIntereses)
		fmt.Printf("  Total payable:    %.2f\n", *r.TotalAPagar)
		return
	}
	if r.MotivoRechazo != nil {
		fmt.Printf("  Reason: %s\n", *r.MotivoRechazo)
	}
}

func cmdSimulate(ctx context.Context, args []string, svc *intake.Service) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	count := fs.Int("n", 10, "number of applications to generate")
	fs.Parse(args)

	result, err := svc.Simulate(ctx, *count)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d applications: %d approved, %d rejected\n",
		result.TotalGeneradas, result.Aprobadas, result.Rechazadas)
	return nil
}

func cmdDashboard(ctx context.Context, sess *session.Manager, svc *indicators.Service) error {
	g := guard.New(sess, loginPath)
	decision := g.Check(ctx)
	if !decision.Allowed {
		return fmt.Errorf("please sign in first (redirected to %s)", decision.RedirectTo)
	}

	ind, err := svc.Snapshot(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total applications: %d\n", ind.TotalSolicitudes)
	fmt.Printf("Approved:  %d (%.1f%%)\n", ind.TotalAprobadas, ind.TasaAprobacion)
	fmt.Printf("Rejected:  %d (%.1f%%)\n", ind.TotalRechazadas, indicators.RejectionRate(ind))
	fmt.Printf("Requested total: %.2f   Approved total: %.2f   Avg score: %.1f\n",
		ind.MontoTotalSolicitado, ind.MontoTotalAprobado, ind.ScorePromedio)
	fmt.Println("\nBy branch:")
	for _, b := range ind.PorSucursal {
		fmt.Printf("  %-25s %-15s total=%-4d approved=%-4d rejected=%-4d avg=%.2f\n",
			b.SucursalNombre, b.Ciudad, b.TotalSolicitudes, b.Aprobadas, b.Rechazadas, b.MontoPromedio)
	}
	return nil
}

func setupTracing() (func(), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return func() { _ = tp.Shutdown(context.Background()) }, nil
}
