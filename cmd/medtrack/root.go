package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/medtrack/internal/application/session"
)

var errNotLoggedIn = errors.New("no hay sesión iniciada; ejecute 'medtrack login'")

// cli estado compartido por los comandos de una ejecución. La app se construye
// en el primer comando que la necesita.
type cli struct {
	newApp  func(verbose bool) (*app, error)
	app     *app
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

func (c *cli) load() (*app, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := c.newApp(c.verbose)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// privileged devuelve la app solo si la sesión del contexto está autenticada;
// no se hace ninguna petición sin token.
func (c *cli) privileged(cmd *cobra.Command) (*app, error) {
	a, err := c.load()
	if err != nil {
		return nil, err
	}
	st, ok := session.FromContext(cmd.Context())
	if !ok || !st.IsAuthenticated() {
		return nil, errNotLoggedIn
	}
	return a, nil
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.kv.Close(); err != nil {
		c.app.log.Warn().Err(err).Msg("cerrar almacén de sesión")
	}
	c.app = nil
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "medtrack",
		Short:         "Cliente de registro de medicamentos y tiras con trazabilidad en ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		// la sesión se restaura antes de cada comando y viaja en el contexto
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			cmd.SetContext(session.WithStore(cmd.Context(), a.session))
			return nil
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "registrar en stderr cada petición HTTP")

	root.AddCommand(
		newSignupCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newMedicinesCmd(c),
		newStripsCmd(c),
		newDownloadCmd(c),
	)
	return root
}
