package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"pettycash/config"
	"pettycash/controllers"
	"pettycash/database"
	"pettycash/middleware"
	"pettycash/services"
	"pettycash/utils"

	"github.com/gorilla/mux"
)

// healthHandler отвечает на проверку работоспособности
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Write([]byte("OK"))
}

// metricsHandler возвращает снимок метрик приложения
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.GetMetrics().GetMetricsSnapshot())
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Инициализируем сервис email
	emailService := services.NewEmailService(cfg)

	// Запускаем периодическую сверку балансов
	reconciliation := services.NewReconciliationService(
		db.DB,
		time.Duration(cfg.Reconciliation.IntervalMinutes)*time.Minute,
		emailService,
		cfg.Reconciliation.NotifyEmail,
	)
	reconciliation.Start()
	defer reconciliation.Stop()
	log.Println("Сверка балансов запущена")

	// Создаем роутер
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RateLimitMiddleware)
	router.Use(middleware.CORSMiddleware)

	// Инициализируем контроллеры
	controllers.NewTransactionController(db, emailService).RegisterRoutes(router)
	controllers.NewAccountController(db).RegisterRoutes(router)
	controllers.NewCategoryController(db).RegisterRoutes(router)
	controllers.NewUserController(db).RegisterRoutes(router)

	// Служебные маршруты
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/api/metrics", metricsHandler).Methods("GET")

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
