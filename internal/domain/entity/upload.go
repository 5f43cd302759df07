package entity

// UploadResult resumen transitorio de una importación masiva de tiras (nunca se persiste).
type UploadResult struct {
	TotalRows        int
	SuccessfulStrips int
	FailedRows       int
	Message          string
	DownloadLink     string
}

// ImportRowResult resultado de una fila del CSV importado.
type ImportRowResult struct {
	Row           int
	Code          string
	Status        string // created, failed
	TransactionID string
	Error         string
}
