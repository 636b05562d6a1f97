package config

import "log"

// maskKey 인증 키 마스킹
func maskKey(key string) string {
	if len(key) >= 10 {
		return key[:6] + "***"
	}
	if key == "" {
		return "(미설정)"
	}
	return "***"
}

// PrintConfig 현재 설정을 출력 (디버깅용)
func (c *Config) PrintConfig() {
	log.Println("=== 교통약자 지하철 안내 설정 ===")

	log.Printf("카탈로그 API: %s (키: %s)", c.CatalogBaseURL, maskKey(c.CatalogServiceKey))
	log.Printf("실시간 API: %s (키: %s)", c.LiveBaseURL, maskKey(c.LiveServiceKey))
	log.Printf("HTTP 타임아웃: %v", c.HTTPTimeout)
	log.Printf("응답 캐시 최대 항목: %d", c.CacheMaxEntries)

	if c.DatabaseURL != "" {
		log.Printf("설비 DB: 설정됨")
	} else {
		log.Printf("설비 DB: 미설정 (메모리 저장소 사용)")
	}

	log.Printf("=== Elasticsearch 설정 ===")
	log.Printf("URL: %s", c.ElasticsearchURL)
	if c.ElasticsearchUsername != "" {
		log.Printf("인증: %s / ***", c.ElasticsearchUsername)
	} else {
		log.Printf("인증: 없음")
	}
	log.Printf("문단 인덱스: %s", c.PassageIndexName)
	log.Printf("검색 상위 K: %d, 타임아웃: %v", c.RetrievalTopK, c.RetrievalTimeout)

	if c.NarratorAPIKey != "" {
		log.Printf("안내문 생성 모델: %s (%s)", c.NarratorModel, c.NarratorEndpoint)
	} else {
		log.Printf("안내문 생성 모델: 미설정 (템플릿 사용)")
	}

	log.Println("========================")
}
