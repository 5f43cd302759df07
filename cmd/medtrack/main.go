package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jhoicas/medtrack/internal/application/service"
	"github.com/jhoicas/medtrack/internal/application/session"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
	"github.com/jhoicas/medtrack/internal/infrastructure/storage"
	"github.com/jhoicas/medtrack/pkg/config"
	"github.com/jhoicas/medtrack/pkg/logger"
)

func main() {
	c := &cli{newApp: newAppFromConfig, out: os.Stdout, errOut: os.Stderr}
	root := newRootCmd(c)
	err := root.Execute()
	c.close()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// app dependencias de la CLI para una ejecución.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	kv        storage.KeyValueStore
	client    *apiclient.Client
	session   *session.Store
	medicines *service.MedicineService
	strips    *service.StripService
}

// newApp arma cliente, servicios y sesión sobre un almacén ya abierto.
func newApp(cfg *config.Config, log *logger.Logger, kv storage.KeyValueStore) *app {
	client := apiclient.New(apiclient.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout, Logger: log}, kv)
	st := session.NewStore(service.NewAuthService(client, kv), client, kv, log)
	st.Init()
	return &app{
		cfg:       cfg,
		log:       log,
		kv:        kv,
		client:    client,
		session:   st,
		medicines: service.NewMedicineService(client),
		strips:    service.NewStripService(client, cfg.API.StripTimeout),
	}
}

// newAppFromConfig usa el almacén de sesión en disco. Sin --verbose la CLI solo
// registra errores: el resto ya llega al usuario como mensaje.
func newAppFromConfig(verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := "error"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: os.Stderr})
	kv, err := storage.OpenBadger(cfg.Client.SessionDir, log)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, log, kv), nil
}

// printError muestra el mensaje legible y, si los hay, los errores por campo.
func printError(w io.Writer, err error) {
	apiErr, ok := apiclient.AsAPIError(err)
	if !ok {
		fmt.Fprintln(w, "Error:", err)
		return
	}
	fmt.Fprintln(w, "Error:", apiErr.Message)
	printFieldErrors(w, apiErr.Errors)
}

func printFieldErrors(w io.Writer, fields map[string][]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, msg := range fields[k] {
			fmt.Fprintf(w, "  %s: %s\n", k, msg)
		}
	}
}
