package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"aplus-content-server/modules/aplus"
	"aplus-content-server/modules/common/config"
	"aplus-content-server/modules/common/guard"
	commonredis "aplus-content-server/modules/common/redis"
	"aplus-content-server/modules/progress"
)

// CORS 미들웨어
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "aplus-content-server",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Redis 연결 (없으면 in-process lock으로 동작)
	rdb := commonredis.Connect(cfg)

	// 재생성 admission guard (동시에 1건만)
	regenGuard := guard.New(rdb, 2*time.Duration(cfg.GenerateTimeoutSec)*time.Second)

	// 진행 이벤트 허브
	hub := progress.NewHub()

	// 파이프라인 서비스 (Gemini 클라이언트는 시작 시점에 검증)
	service, err := aplus.NewService(ctx, cfg, hub)
	if err != nil {
		log.Fatalf("❌ Failed to init aplus service: %v", err)
	}

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWS)

	aplus.NewHandler(service, regenGuard).RegisterRoutes(r)

	log.Printf("🚀 Aplus Content Server starting on port %s", cfg.Port)
	log.Printf("📡 Progress endpoint: ws://localhost:%s/ws?batch=<id>", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
