package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/session"
	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
)

func newSignupCmd(c *cli) *cobra.Command {
	var req dto.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Registrar una empresa fabricante",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			res := a.session.Signup(cmd.Context(), req)
			return report(c, res)
		},
	}
	cmd.Flags().StringVar(&req.CompanyName, "company", "", "Nombre de la empresa")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email de acceso")
	cmd.Flags().StringVar(&req.Password, "password", "", "Contraseña (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&req.Location, "location", "", "Ubicación")
	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			res := a.session.Login(cmd.Context(), email, password)
			if err := report(c, res); err != nil {
				return err
			}
			if u := a.session.User(); u != nil {
				fmt.Fprintf(c.out, "Bienvenido, %s.\n", u.CompanyName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email de acceso")
	cmd.Flags().StringVar(&password, "password", "", "Contraseña")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión local",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Sesión cerrada.")
			return nil
		},
	}
}

// whoami revalida el token contra el servidor antes de mostrar el perfil.
func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar el fabricante de la sesión actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			if !a.session.CheckAuth(cmd.Context()) {
				return errNotLoggedIn
			}
			u := a.session.User()
			if u == nil {
				return errNotLoggedIn
			}
			printProfile(c.out, u)
			return nil
		},
	}
}

// report imprime el mensaje de un Result y lo convierte en error si falló.
func report(c *cli, res session.Result) error {
	if !res.Success {
		return apiclient.NewValidationError(res.Message, res.Errors)
	}
	fmt.Fprintln(c.out, res.Message)
	return nil
}
