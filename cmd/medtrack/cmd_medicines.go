package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/service"
)

func newMedicinesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "medicines",
		Aliases: []string{"medicine", "med"},
		Short:   "Gestionar los medicamentos de la empresa",
	}
	cmd.AddCommand(
		newMedicinesListCmd(c),
		newMedicinesCreateCmd(c),
		newMedicinesUpdateCmd(c),
		newMedicinesDeleteCmd(c),
	)
	return cmd
}

func newMedicinesListCmd(c *cli) *cobra.Command {
	var req dto.MedicineListingRequest
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listar medicamentos con filtros, paginación y orden",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			res, err := a.medicines.List(cmd.Context(), req)
			if err != nil {
				return err
			}
			printMedicines(c.out, res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Filtrar por nombre (contiene)")
	f.StringVar(&req.Formula, "formula", "", "Filtrar por fórmula (contiene)")
	f.StringVar(&req.Company, "company", "", "Filtrar por empresa (contiene)")
	f.IntVar(&req.Page, "page", 0, "Página (desde 1)")
	f.IntVar(&req.Limit, "limit", 0, "Elementos por página")
	f.StringVar(&req.SortBy, "sort-by", "", "Campo de orden: name, formula, createdAt")
	f.StringVar(&req.SortOrder, "sort-order", "", "Sentido: asc, desc")
	return cmd
}

func newMedicinesCreateCmd(c *cli) *cobra.Command {
	var (
		req       dto.CreateMedicineRequest
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crear un medicamento con su imagen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			var image service.Upload
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("leer imagen: %w", err)
				}
				image = service.Upload{Filename: filepath.Base(imagePath), Data: data}
			}
			res, err := a.medicines.Create(cmd.Context(), req, image)
			if err != nil {
				return err
			}
			printMessage(c.out, res.Message)
			printMedicine(c.out, res.Data)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Nombre")
	f.StringVar(&req.Formula, "formula", "", "Fórmula")
	f.StringVar(&req.Company, "company", "", "Empresa (se usa la de la cuenta)")
	f.StringVar(&imagePath, "image", "", "Ruta de la imagen")
	return cmd
}

func newMedicinesUpdateCmd(c *cli) *cobra.Command {
	var name, formula string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Actualizar nombre o fórmula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			var req dto.UpdateMedicineRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("formula") {
				req.Formula = &formula
			}
			res, err := a.medicines.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			printMessage(c.out, res.Message)
			printMedicine(c.out, res.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Nuevo nombre")
	cmd.Flags().StringVar(&formula, "formula", "", "Nueva fórmula")
	return cmd
}

func newMedicinesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Eliminar un medicamento y sus tiras",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			msg, err := a.medicines.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMessage(c.out, msg)
			return nil
		},
	}
}
