package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/medtrack/internal/application/auth"
	"github.com/jhoicas/medtrack/internal/application/usecase"
	"github.com/jhoicas/medtrack/internal/domain/repository"
	"github.com/jhoicas/medtrack/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	MedicineUC    *usecase.MedicineUseCase
	StripUC       *usecase.StripUseCase
	ImportUC      *usecase.StripImportUseCase
	Results       *usecase.ResultStore
	Manufacturers repository.ManufacturerRepository
	Tokens        *jwt.Signer
}

// NewApp crea la aplicación Fiber con la configuración común del backend.
// Los parámetros de ruta llegan decodificados (códigos de tira con espacios).
func NewApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		UnescapePath: true,
		BodyLimit:    MaxCSVBytes + 1<<20,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 90,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Manufacturer (signup/signin públicos)
	authHandler := NewAuthHandler(deps.AuthUC)
	manufacturer := api.Group("/manufacturer")
	manufacturer.Post("/signup", authHandler.Signup)
	manufacturer.Post("/signin", authHandler.Signin)

	stripHandler := NewStripHandler(deps.StripUC, deps.ImportUC, deps.Results)
	// Resultados de importación (público: el nombre es un UUID)
	api.Get("/strips/upload-results/:name", stripHandler.UploadResult)

	// Rutas protegidas (requieren Bearer Token de una cuenta existente)
	authed := []fiber.Handler{AuthMiddleware(deps.Tokens), RequireAccount(deps.Manufacturers)}

	manufacturer.Get("/me", append(authed, authHandler.Me)...)

	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines := api.Group("/medicines", authed...)
	medicines.Post("/", medicineHandler.Create)
	medicines.Get("/", medicineHandler.List)
	medicines.Put("/:id", medicineHandler.Update)
	medicines.Delete("/:id", medicineHandler.Delete)

	strips := api.Group("/strips", authed...)
	strips.Post("/", stripHandler.Create)
	strips.Post("/upload-csv", stripHandler.UploadCSV)
	strips.Get("/medicine/:medicineId", stripHandler.ListByMedicine)
	strips.Get("/code/:code", stripHandler.GetByCode)
	strips.Get("/:id/label", stripHandler.Label)
	strips.Get("/:id", stripHandler.GetByID)
	strips.Put("/:id", stripHandler.Update)
	strips.Delete("/:id", stripHandler.Delete)
}
