package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Server
	Port string

	// Gemini API
	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string

	// 이미지 생성 호출당 타임아웃 (초)
	GenerateTimeoutSec int

	// Watermark
	WatermarkText    string
	WatermarkOpacity float64
	WatermarkPadding int
	WatermarkScale   int

	// Export (다운로드 시퀀서)
	ExportDir     string
	ExportDelayMs int

	// 입력 이미지 제한 (핸들러 레벨 검증)
	MaxUploadBytes   int64
	AllowedMimeTypes []string

	// Redis (재생성 lock용, 선택)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase Storage (아카이브 업로드용, 선택)
	SupabaseURL        string
	SupabaseServiceKey string
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	globalConfig = &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Gemini API
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		GenerateTimeoutSec: getEnvInt("GENERATE_TIMEOUT_SECONDS", 30),

		// Watermark
		WatermarkText:    getEnv("WATERMARK_TEXT", "Awake Inc."),
		WatermarkOpacity: getEnvFloat("WATERMARK_OPACITY", 0.7),
		WatermarkPadding: getEnvInt("WATERMARK_PADDING", 10),
		WatermarkScale:   getEnvInt("WATERMARK_SCALE", 2),

		// Export
		ExportDir:     getEnv("EXPORT_DIR", "exports"),
		ExportDelayMs: getEnvInt("EXPORT_DELAY_MS", 200),

		// Upload 제한: 10MB, jpeg/png/webp/gif
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		AllowedMimeTypes: getEnvList("ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/webp,image/gif"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   getEnvBool("REDIS_USE_TLS", true),

		// Supabase Storage
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Text model: %s", globalConfig.GeminiTextModel)
	log.Printf("   Image model: %s", globalConfig.GeminiImageModel)
	log.Printf("   Generate timeout: %ds", globalConfig.GenerateTimeoutSec)
	if globalConfig.RedisHost != "" {
		log.Printf("   Redis: %s (TLS: %v)", globalConfig.GetRedisAddr(), globalConfig.RedisUseTLS)
	} else {
		log.Printf("   Redis: disabled (in-process regeneration lock)")
	}
	if globalConfig.SupabaseURL != "" {
		log.Printf("   Archive storage: %s", globalConfig.SupabaseURL)
	}

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.GenerateTimeoutSec <= 0 {
		return fmt.Errorf("GENERATE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// GenerateTimeout - 이미지 생성 호출당 타임아웃
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.GenerateTimeoutSec) * time.Second
}

// ExportDelay - Export 파일 간 간격
func (c *Config) ExportDelay() time.Duration {
	return time.Duration(c.ExportDelayMs) * time.Millisecond
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// IsAllowedMimeType - 업로드 허용 형식인지 확인
func (c *Config) IsAllowedMimeType(mimeType string) bool {
	for _, allowed := range c.AllowedMimeTypes {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
