// Package navigator 경로 계획, 세션 진행, 체크포인트 안내를 묶는 파사드.
package navigator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/guide"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/rag"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/status"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/storage"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/trip"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// Navigator 교통약자 지하철 안내 파사드
type Navigator struct {
	repo        storage.FacilityRepository
	status      *status.StatusService
	retriever   rag.Retriever
	synthesizer *guide.Synthesizer
	planner     *trip.Planner
	sessions    *trip.SessionStore
	logger      *utils.Logger
}

// NewNavigator 새로운 안내 파사드 생성
func NewNavigator(repo storage.FacilityRepository, statusSvc *status.StatusService, retriever rag.Retriever, synthesizer *guide.Synthesizer, planner *trip.Planner, sessions *trip.SessionStore, logger *utils.Logger) *Navigator {
	return &Navigator{
		repo:        repo,
		status:      statusSvc,
		retriever:   retriever,
		synthesizer: synthesizer,
		planner:     planner,
		sessions:    sessions,
		logger:      logger,
	}
}

// AssembleTrip 경로 계획 수립 및 안내 세션 생성
func (nav *Navigator) AssembleTrip(ctx context.Context, req models.TripRequest) (*models.TripPlan, error) {
	return nav.planner.AssembleTrip(ctx, req)
}

// ReportPosition 위치 보고 처리
// 체크포인트에 도달하면 해당 체크포인트의 안내문을 함께 반환한다.
func (nav *Navigator) ReportPosition(ctx context.Context, sessionID string, lat, lon float64) (*trip.PositionResult, *models.GuidanceResult, error) {
	result, err := nav.sessions.ReportPosition(sessionID, lat, lon)
	if err != nil {
		return nil, nil, err
	}

	if !result.Reached || result.Checkpoint == nil {
		return result, nil, nil
	}

	guidance, err := nav.CheckpointGuide(ctx, sessionID, result.Checkpoint.ID)
	if err != nil {
		// 안내 생성 실패가 진행 자체를 막지 않는다
		nav.logger.Warnf("체크포인트 안내 생성 실패 - 세션: %s, 체크포인트: %d, 오류: %v",
			sessionID, result.Checkpoint.ID, err)
		return result, nil, nil
	}

	return result, guidance, nil
}

// Advance 명시적 진행 신호 처리 (좌표 없는 체크포인트용)
func (nav *Navigator) Advance(ctx context.Context, sessionID string) (*trip.PositionResult, *models.GuidanceResult, error) {
	result, err := nav.sessions.Advance(sessionID)
	if err != nil {
		return nil, nil, err
	}

	if !result.Reached || result.Checkpoint == nil {
		return result, nil, nil
	}

	guidance, err := nav.CheckpointGuide(ctx, sessionID, result.Checkpoint.ID)
	if err != nil {
		nav.logger.Warnf("체크포인트 안내 생성 실패 - 세션: %s, 체크포인트: %d, 오류: %v",
			sessionID, result.Checkpoint.ID, err)
		return result, nil, nil
	}

	return result, guidance, nil
}

// CheckpointGuide 특정 체크포인트의 안내문 생성
func (nav *Navigator) CheckpointGuide(ctx context.Context, sessionID string, checkpointID int) (*models.GuidanceResult, error) {
	session, err := nav.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var checkpoint *models.Checkpoint
	for i := range session.Checkpoints {
		if session.Checkpoints[i].ID == checkpointID {
			checkpoint = &session.Checkpoints[i]
			break
		}
	}
	if checkpoint == nil {
		return nil, fmt.Errorf("체크포인트 %d를 찾을 수 없습니다 (세션: %s)", checkpointID, sessionID)
	}

	station, err := nav.repo.StationByName(ctx, checkpoint.StationName)
	if err != nil {
		return nil, fmt.Errorf("역 조회 실패 (%s): %w", checkpoint.StationName, err)
	}

	exits, err := nav.repo.ExitsByStation(ctx, station.ID)
	if err != nil {
		return nil, fmt.Errorf("출구 조회 실패 (%s): %w", station.Name, err)
	}

	var exit *models.Exit
	if checkpoint.ExitNumber != "" {
		for i := range exits {
			if exits[i].ExitNumber == checkpoint.ExitNumber {
				exit = &exits[i]
				break
			}
		}
	}

	snapshot := nav.status.Snapshot(ctx, station.Name, checkpoint.ExitNumber, session.Line)

	query := fmt.Sprintf("%s역 %s 안내", station.Name, checkpoint.Type)
	if checkpoint.ExitNumber != "" {
		query = fmt.Sprintf("%s역 %s번 출구 %s 안내", station.Name, checkpoint.ExitNumber, checkpoint.Type)
	}
	passages := nav.retriever.Retrieve(ctx, checkpoint.Type, station.Name, query)

	req := guide.Request{
		CheckpointID:   checkpoint.ID,
		CheckpointType: checkpoint.Type,
		Station:        station,
		Exit:           exit,
		Exits:          exits,
		Boarding:       boardingFromData(checkpoint.Data),
		Direction:      session.Direction,
		Destination:    session.EndStation,
		Tags:           session.Tags,
	}

	return nav.synthesizer.Synthesize(ctx, req, snapshot, passages), nil
}

// EndTrip 안내 세션 종료
func (nav *Navigator) EndTrip(sessionID string) error {
	return nav.sessions.End(sessionID)
}

// ActiveSessions 활성 세션 수 반환
func (nav *Navigator) ActiveSessions() int {
	return nav.sessions.Count()
}

// boardingFromData 체크포인트 데이터에서 승차 안내 복원
func boardingFromData(data map[string]string) *models.BoardingGuide {
	if data == nil {
		return nil
	}

	car, err := strconv.Atoi(data["car"])
	if err != nil {
		return nil
	}
	door, _ := strconv.Atoi(data["door"])

	return &models.BoardingGuide{
		CarNumber:  car,
		DoorNumber: door,
		Reason:     data["reason"],
	}
}
