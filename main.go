package main

import (
	"fmt"
	"log"
	"os"

	"rental-ledger-server/routes"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/logout", routes.Logout)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetUser)
	}

	property := app.Party("/api/property", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		property.Post("/", routes.CreateProperty)
		property.Get("/", routes.GetProperties)
		property.Get("/{id:uint}", routes.GetProperty)
		property.Patch("/{id:uint}", routes.UpdateProperty)
		property.Delete("/{id:uint}", routes.DeleteProperty)
	}

	unit := app.Party("/api/unit", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		unit.Post("/", routes.CreateUnit)
		unit.Patch("/{id:uint}", routes.UpdateUnit)
		unit.Delete("/{id:uint}", routes.DeleteUnit)
		unit.Post("/catchup", routes.RegenerateAllLedgers)
	}

	rent := app.Party("/api/rent", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		rent.Get("/", routes.GetRentRecords)
		rent.Get("/arrears", routes.GetArrears)
		rent.Patch("/{id:uint}/payment", routes.UpdateRentPayment)
		rent.Delete("/{id:uint}", routes.DeleteRentRecord)
		rent.Post("/bulk/status", routes.BulkUpdateRentStatus)
		rent.Post("/bulk/delete", routes.BulkDeleteRentRecords)
	}

	expense := app.Party("/api/expense", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		expense.Post("/", routes.CreateExpense)
		expense.Get("/", routes.GetExpenses)
		expense.Delete("/{id:uint}", routes.DeleteExpense)
		expense.Post("/recurring/post", routes.PostRecurringExpenses)
	}

	task := app.Party("/api/task", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		task.Get("/", routes.GetTasks)
		task.Post("/", routes.CreateTask)
		task.Patch("/{id:uint}/toggle", routes.ToggleTask)
		task.Delete("/{id:uint}", routes.DeleteTask)
	}

	export := app.Party("/api/export", accessTokenVerifierMiddleware)
	{
		export.Get("/rent", routes.ExportRentRecords)
		export.Get("/expenses", routes.ExportExpenses)
		export.Get("/properties", routes.ExportPropertiesAndUnits)
		export.Get("/tasks", routes.ExportTasks)
	}

	app.Get("/api/dashboard", accessTokenVerifierMiddleware, routes.GetDashboardSummary)

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := ":" + port

	fmt.Println("Starting server on", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
