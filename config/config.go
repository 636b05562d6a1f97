package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
)

// Config 애플리케이션 설정 구조체
type Config struct {
	// 서울 열린데이터광장 카탈로그 API 인증 정보
	CatalogServiceKey string
	CatalogBaseURL    string

	// 서울 지하철 실시간 API 인증 정보
	LiveServiceKey string
	LiveBaseURL    string

	// HTTP 클라이언트 설정
	HTTPTimeout time.Duration

	// 응답 캐시 설정
	CacheMaxEntries int

	// 설비 데이터베이스 (PostgreSQL)
	DatabaseURL string

	// Elasticsearch 설정 (안내 지식 문단 인덱스)
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	PassageIndexName      string

	// 지식 검색 설정
	RetrievalTopK    int
	RetrievalTimeout time.Duration

	// 안내문 생성 모델 설정 (비어있으면 템플릿만 사용)
	NarratorEndpoint string
	NarratorAPIKey   string
	NarratorModel    string
	NarratorTimeout  time.Duration
}

// LoadConfig 환경변수 또는 기본값으로 설정을 로드
func LoadConfig() *Config {
	// .env 파일 로드 시도 (선택사항)
	if err := godotenv.Load(); err != nil {
		log.Println(".env 파일을 찾을 수 없습니다. 시스템 환경변수를 사용합니다.")
	} else {
		log.Println(".env 파일을 성공적으로 로드했습니다.")
	}

	cfg := &Config{
		// 카탈로그 API (서울 열린데이터광장)
		CatalogServiceKey: getEnv("SEOUL_API_KEY", ""),
		CatalogBaseURL:    getEnv("CATALOG_BASE_URL", "http://openapi.seoul.go.kr:8088"),

		// 실시간 API (서울 지하철)
		LiveServiceKey: getEnv("SEOUL_REALTIME_API_KEY", ""),
		LiveBaseURL:    getEnv("LIVE_BASE_URL", "http://swopenAPI.seoul.go.kr/api/subway"),

		// HTTP 클라이언트
		HTTPTimeout: getDuration("HTTP_TIMEOUT_SECONDS", 30),

		// 응답 캐시
		CacheMaxEntries: getIntEnv("CACHE_MAX_ENTRIES", 256),

		// 설비 데이터베이스
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Elasticsearch
		ElasticsearchURL:      getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
		ElasticsearchUsername: getEnv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPassword: getEnv("ELASTICSEARCH_PASSWORD", ""),
		PassageIndexName:      getEnv("PASSAGE_INDEX_NAME", "guidance-passages"),

		// 지식 검색
		RetrievalTopK:    getIntEnv("RETRIEVAL_TOP_K", 3),
		RetrievalTimeout: getDuration("RETRIEVAL_TIMEOUT_SECONDS", 2),

		// 안내문 생성 모델
		NarratorEndpoint: getEnv("NARRATOR_ENDPOINT", ""),
		NarratorAPIKey:   getEnv("NARRATOR_API_KEY", ""),
		NarratorModel:    getEnv("NARRATOR_MODEL", "gpt-4o-mini"),
		NarratorTimeout:  getDuration("NARRATOR_TIMEOUT_SECONDS", 10),
	}

	// 설정 검증
	if err := cfg.Validate(); err != nil {
		log.Fatalf("설정 검증 실패: %v", err)
	}

	return cfg
}

// Validate 설정 유효성 검증
func (c *Config) Validate() error {
	if c.CatalogServiceKey == "" {
		return fmt.Errorf("SEOUL_API_KEY가 설정되지 않았습니다. 환경변수를 확인해주세요")
	}

	if c.LiveServiceKey == "" {
		return fmt.Errorf("SEOUL_REALTIME_API_KEY가 설정되지 않았습니다. 환경변수를 확인해주세요")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS는 0보다 커야 합니다 (현재: %v)", c.HTTPTimeout)
	}

	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES는 0보다 커야 합니다 (현재: %d)", c.CacheMaxEntries)
	}

	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K는 0보다 커야 합니다 (현재: %d)", c.RetrievalTopK)
	}

	return nil
}
