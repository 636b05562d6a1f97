package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/api"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/cache"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/guide"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/navigator"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/rag"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/status"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/storage"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/trip"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.NewLogger()

	logger.Info("=== 교통약자 지하철 안내 서비스 시작 ===")
	cfg.PrintConfig()

	ctx := context.Background()

	// 설비 저장소 초기화 (DB 미설정 시 메모리 저장소)
	repo := initRepository(ctx, cfg, logger)

	// 문단 인덱스 초기화 및 지식 코퍼스 적재
	retriever := initRetriever(ctx, cfg, logger, repo)

	// 업스트림 클라이언트와 응답 캐시
	catalogClient := api.NewCatalogClient(cfg, logger)
	liveClient := api.NewLiveClient(cfg, logger)
	responseCache := cache.NewResponseCache(cfg.CacheMaxEntries, logger)

	statusService := status.NewStatusService(cfg, logger, responseCache, catalogClient, liveClient)

	// 안내문 생성 모델 (API 키 없으면 템플릿만 사용)
	var narrator guide.Narrator
	if cfg.NarratorAPIKey != "" {
		narrator = guide.NewHTTPNarrator(cfg, logger)
		logger.Info("안내문 생성 모델 활성화")
	} else {
		logger.Info("안내문 생성 모델 미설정 - 템플릿 안내만 사용합니다")
	}

	synthesizer := guide.NewSynthesizer(narrator, logger)
	sessions := trip.NewSessionStore(logger)
	planner := trip.NewPlanner(repo, statusService, sessions, logger)

	nav := navigator.NewNavigator(repo, statusService, retriever, synthesizer, planner, sessions, logger)

	logger.Info("=== 모든 서비스 초기화 완료 ===")
	logger.Info("안내 파사드 준비 완료 - 외부 인터페이스 연결 대기 중")
	logger.Info("종료하려면 Ctrl+C를 누르세요")

	statusTicker := time.NewTicker(time.Minute)
	defer statusTicker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			logger.Info("=== 종료 신호 수신 - 안내 서비스 종료 ===")
			return
		case <-statusTicker.C:
			logger.Infof("활성 안내 세션: %d개", nav.ActiveSessions())
		}
	}
}

// initRepository 설비 저장소 초기화
func initRepository(ctx context.Context, cfg *config.Config, logger *utils.Logger) storage.FacilityRepository {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL 미설정 - 메모리 설비 저장소로 실행합니다")
		return storage.NewMemoryFacilityRepository()
	}

	repo, err := storage.NewPostgresFacilityRepository(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("설비 DB 초기화 실패: %v", err)
	}

	logger.Info("설비 DB 연결 성공")
	return repo
}

// initRetriever 문단 인덱스 초기화 및 코퍼스 적재
// 인덱스 장애 시에도 서비스는 템플릿 안내로 계속 동작한다.
func initRetriever(ctx context.Context, cfg *config.Config, logger *utils.Logger, repo storage.FacilityRepository) rag.Retriever {
	index, err := storage.NewPassageIndex(cfg, logger)
	if err != nil {
		log.Fatalf("문단 인덱스 초기화 실패: %v", err)
	}

	if err := index.TestConnection(); err != nil {
		logger.Warnf("Elasticsearch 연결 실패 - 지식 검색 없이 실행합니다: %v", err)
		return rag.NewIndexRetriever(index, cfg, logger)
	}
	logger.Info("Elasticsearch 연결 성공")

	if err := index.EnsureIndex(ctx); err != nil {
		logger.Warnf("문단 인덱스 준비 실패: %v", err)
		return rag.NewIndexRetriever(index, cfg, logger)
	}

	passages, err := rag.BuildCorpus(ctx, repo)
	if err != nil {
		logger.Warnf("지식 코퍼스 생성 실패: %v", err)
	} else if err := index.BulkIndexPassages(ctx, passages); err != nil {
		logger.Warnf("지식 코퍼스 적재 실패: %v", err)
	} else {
		logger.Infof("지식 코퍼스 적재 완료 - 문단: %d건", len(passages))
	}

	return rag.NewIndexRetriever(index, cfg, logger)
}
