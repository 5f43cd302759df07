package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/service"
	"github.com/jhoicas/medtrack/internal/infrastructure/download"
)

func newStripsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "strips",
		Aliases: []string{"strip"},
		Short:   "Gestionar tiras registradas en el ledger",
	}
	cmd.AddCommand(
		newStripsCreateCmd(c),
		newStripsListCmd(c),
		newStripsGetCmd(c),
		newStripsCodeCmd(c),
		newStripsUpdateCmd(c),
		newStripsDeleteCmd(c),
		newStripsUploadCmd(c),
		newStripsLabelCmd(c),
	)
	return cmd
}

// stripFlags valores de los metadatos de una tira leídos de la línea de comandos.
type stripFlags struct {
	code, batch, description, status string
	power, price                     float64
	expiry, manufactured             string
}

func (sf *stripFlags) register(f *pflag.FlagSet, withCode bool) {
	if withCode {
		f.StringVar(&sf.code, "code", "", "Código alfanumérico único de la tira")
	}
	f.StringVar(&sf.batch, "batch", "", "Número de lote")
	f.Float64Var(&sf.power, "power", 0, "Potencia")
	f.Float64Var(&sf.price, "price", 0, "Precio")
	f.StringVar(&sf.expiry, "expiry", "", "Fecha de vencimiento (2006-01-02 o RFC3339)")
	f.StringVar(&sf.manufactured, "manufactured", "", "Fecha de fabricación (2006-01-02 o RFC3339)")
	f.StringVar(&sf.description, "description", "", "Descripción")
	f.StringVar(&sf.status, "status", "", "Estado: active, expired, recalled, inactive")
}

func (sf *stripFlags) create(medicineID string) (dto.CreateStripRequest, error) {
	data := dto.BlockchainStripData{
		Power:       sf.power,
		Price:       sf.price,
		BatchNumber: sf.batch,
		Description: sf.description,
		Status:      sf.status,
		StripCode:   sf.code,
	}
	var err error
	if data.ExpiryDate, err = parseDateFlag("expiry", sf.expiry); err != nil {
		return dto.CreateStripRequest{}, err
	}
	if data.ManufacturingDate, err = parseDateFlag("manufactured", sf.manufactured); err != nil {
		return dto.CreateStripRequest{}, err
	}
	return dto.CreateStripRequest{MedicineID: medicineID, BlockchainData: data}, nil
}

// patch solo incluye los flags indicados explícitamente.
func (sf *stripFlags) patch(f *pflag.FlagSet) (dto.UpdateStripRequest, error) {
	var p dto.StripDataPatch
	if f.Changed("power") {
		p.Power = &sf.power
	}
	if f.Changed("price") {
		p.Price = &sf.price
	}
	if f.Changed("batch") {
		p.BatchNumber = &sf.batch
	}
	if f.Changed("description") {
		p.Description = &sf.description
	}
	if f.Changed("status") {
		p.Status = &sf.status
	}
	if f.Changed("expiry") {
		t, err := parseDateFlag("expiry", sf.expiry)
		if err != nil {
			return dto.UpdateStripRequest{}, err
		}
		p.ExpiryDate = &t
	}
	if f.Changed("manufactured") {
		t, err := parseDateFlag("manufactured", sf.manufactured)
		if err != nil {
			return dto.UpdateStripRequest{}, err
		}
		p.ManufacturingDate = &t
	}
	return dto.UpdateStripRequest{BlockchainData: p}, nil
}

// parseDateFlag vacío devuelve la fecha cero; la validación la reporta como obligatoria.
func parseDateFlag(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("--%s: fecha inválida %q", name, value)
}

func newStripsCreateCmd(c *cli) *cobra.Command {
	var (
		sf         stripFlags
		medicineID string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crear una tira y registrarla en el ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			req, err := sf.create(medicineID)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.errOut, "Registrando en el ledger...")
			res, err := a.strips.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			printMessage(c.out, res.Message)
			printStrip(c.out, res.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&medicineID, "medicine", "", "ID del medicamento")
	sf.register(cmd.Flags(), true)
	return cmd
}

func newStripsListCmd(c *cli) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list <medicineId>",
		Short: "Listar las tiras de un medicamento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			p, err := a.strips.ListPage(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			printStripPage(c.out, p)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Página (desde 1)")
	return cmd
}

func newStripsGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Obtener una tira por ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			s, err := a.strips.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printStrip(c.out, *s)
			return nil
		},
	}
}

func newStripsCodeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "code <code>",
		Short: "Obtener una tira por su código alfanumérico",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			s, err := a.strips.GetByCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printStrip(c.out, *s)
			return nil
		},
	}
}

func newStripsUpdateCmd(c *cli) *cobra.Command {
	var sf stripFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Actualizar metadatos de una tira (vuelve a registrarse en el ledger)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			req, err := sf.patch(cmd.Flags())
			if err != nil {
				return err
			}
			res, err := a.strips.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			printMessage(c.out, res.Message)
			printStrip(c.out, res.Data)
			return nil
		},
	}
	sf.register(cmd.Flags(), false)
	return cmd
}

func newStripsDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Eliminar una tira",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			msg, err := a.strips.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMessage(c.out, msg)
			return nil
		},
	}
}

func newStripsUploadCmd(c *cli) *cobra.Command {
	var (
		medicineID string
		save       bool
		out        string
	)
	cmd := &cobra.Command{
		Use:   "upload <archivo.csv>",
		Short: "Importar tiras desde un CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("leer CSV: %w", err)
			}
			fmt.Fprintln(c.errOut, "Importando, puede tardar varios minutos...")
			res, err := a.strips.UploadFile(cmd.Context(), service.Upload{Filename: filepath.Base(args[0]), ContentType: "text/csv", Data: data}, medicineID)
			if err != nil {
				return err
			}
			printUploadResult(c.out, res)
			if !save || res.DownloadLink == "" {
				return nil
			}
			path, err := download.Save(cmd.Context(), a.client, res.DownloadLink, a.cfg.API.HostPrefix, out, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Resultados guardados en %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&medicineID, "medicine", "", "ID del medicamento")
	cmd.Flags().BoolVar(&save, "save", false, "Descargar el CSV de resultados")
	cmd.Flags().StringVar(&out, "out", "", "Archivo o directorio destino de los resultados")
	return cmd
}

func newStripsLabelCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "label <id>",
		Short: "Descargar la etiqueta PDF con el QR de la tira",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.privileged(cmd)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := a.strips.DownloadLabel(cmd.Context(), args[0], &buf); err != nil {
				return err
			}
			if out == "" {
				out = "strip-" + args[0] + ".pdf"
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("guardar etiqueta: %w", err)
			}
			fmt.Fprintf(c.out, "Etiqueta guardada en %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Archivo destino")
	return cmd
}

func newDownloadCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download <enlace>",
		Short: "Descargar un CSV de resultados de importación",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load()
			if err != nil {
				return err
			}
			path, err := download.Save(cmd.Context(), a.client, args[0], a.cfg.API.HostPrefix, out, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Guardado en %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Archivo o directorio destino")
	return cmd
}
