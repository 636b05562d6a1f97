// Package rag 안내 지식 문단의 적재와 검색을 담당한다.
package rag

import (
	"context"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// PassageSearcher 문단 검색 인터페이스 (storage.PassageIndex가 구현)
type PassageSearcher interface {
	Search(ctx context.Context, query, checkpointType, stationName string, topK int) ([]models.GuidancePassage, error)
}

// Retriever 체크포인트 맥락에 맞는 안내 문단을 검색하는 인터페이스
type Retriever interface {
	// Retrieve 검색 결과 상위 K개 문단 반환
	// 인덱스 장애 시 오류 대신 빈 결과로 조용히 축소 동작한다.
	Retrieve(ctx context.Context, checkpointType models.CheckpointType, stationName, query string) []models.GuidancePassage
}

// IndexRetriever Elasticsearch 인덱스 기반 검색기
type IndexRetriever struct {
	searcher PassageSearcher
	topK     int
	timeout  time.Duration
	logger   *utils.Logger
}

// NewIndexRetriever 새로운 인덱스 검색기 생성
func NewIndexRetriever(searcher PassageSearcher, cfg *config.Config, logger *utils.Logger) *IndexRetriever {
	return &IndexRetriever{
		searcher: searcher,
		topK:     cfg.RetrievalTopK,
		timeout:  cfg.RetrievalTimeout,
		logger:   logger,
	}
}

// categoryFor 체크포인트 유형을 문단 분류로 변환
func categoryFor(cpType models.CheckpointType) string {
	switch cpType {
	case models.CheckpointOriginExit, models.CheckpointArrivalExit, models.CheckpointOrigin:
		return "출구"
	case models.CheckpointOriginPlatform, models.CheckpointArrivalPlatform, models.CheckpointPlatformWait:
		return "승강장"
	case models.CheckpointBoarding:
		return "탑승"
	case models.CheckpointCharging:
		return "충전소"
	default:
		return ""
	}
}

// Retrieve 체크포인트 맥락으로 문단 검색
func (ir *IndexRetriever) Retrieve(ctx context.Context, checkpointType models.CheckpointType, stationName, query string) []models.GuidancePassage {
	searchCtx, cancel := context.WithTimeout(ctx, ir.timeout)
	defer cancel()

	station := utils.NormalizeStationName(stationName)

	passages, err := ir.searcher.Search(searchCtx, query, categoryFor(checkpointType), station, ir.topK)
	if err != nil {
		// 검색 실패는 안내 생성을 막지 않는다
		ir.logger.Warnf("문단 검색 실패, 템플릿만 사용 - 역: %s, 유형: %s, 오류: %v",
			station, checkpointType, err)
		return nil
	}

	return passages
}
