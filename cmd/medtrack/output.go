package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/jhoicas/medtrack/internal/application/dto"
	"github.com/jhoicas/medtrack/internal/application/pagination"
)

const dateLayout = "2006-01-02"

func printMessage(w io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintln(w, msg)
	}
}

func printProfile(w io.Writer, p *dto.ManufacturerProfile) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Empresa:\t%s\n", p.CompanyName)
	fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	fmt.Fprintf(tw, "Ubicación:\t%s\n", p.Location)
	_ = tw.Flush()
}

func printMedicine(w io.Writer, m dto.MedicineResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", m.ID)
	fmt.Fprintf(tw, "Nombre:\t%s\n", m.Name)
	fmt.Fprintf(tw, "Fórmula:\t%s\n", m.Formula)
	fmt.Fprintf(tw, "Empresa:\t%s\n", m.CompanyName)
	fmt.Fprintf(tw, "Creado:\t%s\n", m.CreatedAt.Format(time.RFC3339))
	_ = tw.Flush()
}

func printMedicines(w io.Writer, res *dto.MedicineListResponse) {
	if len(res.Data) == 0 {
		fmt.Fprintln(w, "No hay medicamentos.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tFÓRMULA\tEMPRESA\tCREADO")
	for _, m := range res.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Formula, m.CompanyName, m.CreatedAt.Format(dateLayout))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Página %d · %d por página · %d en total\n", res.Page, res.Limit, res.Total)
}

func printStrip(w io.Writer, s dto.StripResponse) {
	d := s.BlockchainData
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", s.ID)
	fmt.Fprintf(tw, "Código:\t%s\n", s.AlphaNumericCode)
	fmt.Fprintf(tw, "Medicamento:\t%s (%s)\n", s.Medicine.Name, s.Medicine.CompanyName)
	fmt.Fprintf(tw, "Lote:\t%s\n", d.BatchNumber)
	fmt.Fprintf(tw, "Potencia:\t%g\n", d.Power)
	fmt.Fprintf(tw, "Precio:\t%.2f\n", d.Price)
	fmt.Fprintf(tw, "Estado:\t%s\n", d.Status)
	fmt.Fprintf(tw, "Fabricación:\t%s\n", d.ManufacturingDate.Format(dateLayout))
	fmt.Fprintf(tw, "Vencimiento:\t%s\n", d.ExpiryDate.Format(dateLayout))
	if d.Description != "" {
		fmt.Fprintf(tw, "Descripción:\t%s\n", d.Description)
	}
	fmt.Fprintf(tw, "Transacción:\t%s\n", s.BlockchainTransactionID)
	_ = tw.Flush()
}

func printStripPage(w io.Writer, p pagination.Page[dto.StripResponse]) {
	if p.TotalItems == 0 {
		fmt.Fprintln(w, "No hay tiras para este medicamento.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCÓDIGO\tLOTE\tESTADO\tVENCE\tTRANSACCIÓN")
	for _, s := range p.Items {
		d := s.BlockchainData
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.AlphaNumericCode, d.BatchNumber, d.Status, d.ExpiryDate.Format(dateLayout), s.BlockchainTransactionID)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Mostrando %d-%d de %d (página %d de %d)\n", p.From(), p.To(), p.TotalItems, p.Page, p.TotalPages)
}

func printUploadResult(w io.Writer, r *dto.UploadResultResponse) {
	printMessage(w, r.Message)
	fmt.Fprintf(w, "Filas: %d · creadas: %d · con error: %d\n", r.TotalRows, r.SuccessfulStrips, r.FailedRows)
	if r.DownloadLink != "" {
		fmt.Fprintf(w, "Resultados: %s\n", r.DownloadLink)
	}
}
