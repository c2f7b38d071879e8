package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler отвечает на health-проверки оркестратора
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// HealthResponse - ответ health-проверки
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewHealthHandler создает новый обработчик health-проверок
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
	}
}

// RegisterRoutes регистрирует эндпоинты health-проверок
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/ready", h.Readiness)
	mux.HandleFunc("/live", h.Liveness)
}

// HealthCheck проверяет доступность PostgreSQL и Redis
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"postgres": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	status := "healthy"
	code := http.StatusOK
	for _, check := range checks {
		if check != "healthy" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

// Readiness сообщает готовность принимать нагрузку
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	h.HealthCheck(w, r)
}

// Liveness сообщает что процесс жив
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "alive",
		Checks:    map[string]string{},
		Timestamp: time.Now(),
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) string {
	sqlDB, err := h.db.DB()
	if err != nil {
		return "unhealthy: " + err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func (h *HealthHandler) checkRedis(ctx context.Context) string {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func writeJSON(w http.ResponseWriter, code int, body HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
