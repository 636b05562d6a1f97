package trip

import (
	"errors"
	"math"
	"testing"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// pointNorthOf 기준 좌표에서 정북으로 d미터 떨어진 위도 반환
func pointNorthOf(lat float64, d float64) float64 {
	return lat + d*180.0/(math.Pi*utils.EarthRadiusMeters)
}

const (
	exitLat = 37.49805
	exitLon = 127.0286275
)

func TestCheckpointReachedBoundary(t *testing.T) {
	cp := models.Checkpoint{
		Type:         models.CheckpointOriginExit,
		Lat:          exitLat,
		Lon:          exitLon,
		HasCoords:    true,
		RadiusMeters: models.DefaultCheckpointRadius,
	}

	// 반경과 정확히 같은 거리는 도달로 판정
	if reached, d := cp.Reached(pointNorthOf(exitLat, 30), exitLon); !reached {
		t.Errorf("반경 경계(30m)는 도달이어야 합니다: 거리 %.12fm", d)
	}
	if reached, d := cp.Reached(pointNorthOf(exitLat, 31), exitLon); reached {
		t.Errorf("반경 밖(31m)은 도달이 아니어야 합니다: 거리 %.12fm", d)
	}
	if reached, _ := cp.Reached(exitLat, exitLon); !reached {
		t.Error("체크포인트 좌표 자체는 도달이어야 합니다")
	}
}

func TestCheckpointWithoutCoordsNeverReached(t *testing.T) {
	cp := models.Checkpoint{
		Type:        models.CheckpointPlatformWait,
		StationName: "강남",
	}

	if reached, _ := cp.Reached(exitLat, exitLon); reached {
		t.Error("좌표 없는 체크포인트는 위치 보고로 도달하지 않아야 합니다")
	}
}

func testCheckpoints() []models.Checkpoint {
	return []models.Checkpoint{
		{ID: 0, Type: models.CheckpointOrigin, Name: "출발지", StationName: "강남",
			Lat: pointNorthOf(exitLat, 500), Lon: exitLon, HasCoords: true, RadiusMeters: models.DefaultCheckpointRadius},
		{ID: 1, Type: models.CheckpointOriginExit, Name: "강남역 3번 출구", StationName: "강남", ExitNumber: "3",
			Lat: exitLat, Lon: exitLon, HasCoords: true, RadiusMeters: models.DefaultCheckpointRadius},
		{ID: 2, Type: models.CheckpointOriginPlatform, Name: "강남역 승강장", StationName: "강남"},
		{ID: 3, Type: models.CheckpointBoarding, Name: "열차 탑승", StationName: "강남"},
		{ID: 4, Type: models.CheckpointArrivalExit, Name: "역삼역 2번 출구", StationName: "역삼", ExitNumber: "2",
			Lat: 37.500622, Lon: 127.036456, HasCoords: true, RadiusMeters: models.DefaultCheckpointRadius},
	}
}

func TestReportPositionAdvancesOnGeofence(t *testing.T) {
	store := NewSessionStore(utils.NewLogger())
	session := store.Create("강남", "역삼", "2호선", "하행", models.MobilityTags{}, testCheckpoints())

	// 출구 지오펜스 밖 위치: 진행 없음
	result, err := store.ReportPosition(session.ID, pointNorthOf(exitLat, 100), exitLon)
	if err != nil {
		t.Fatalf("ReportPosition 실패: %v", err)
	}
	if result.Reached {
		t.Error("지오펜스 밖 위치에서 진행되었습니다")
	}
	if result.NextCheckpoint == nil || result.NextCheckpoint.ID != 1 {
		t.Errorf("다음 체크포인트가 다릅니다: %+v", result.NextCheckpoint)
	}

	// 출구 도달
	result, err = store.ReportPosition(session.ID, exitLat, exitLon)
	if err != nil {
		t.Fatalf("ReportPosition 실패: %v", err)
	}
	if !result.Reached || result.Checkpoint.ID != 1 {
		t.Fatalf("출구 체크포인트 도달 처리가 다릅니다: %+v", result)
	}
	if result.NextCheckpoint == nil || result.NextCheckpoint.ID != 2 {
		t.Errorf("다음 체크포인트가 다릅니다: %+v", result.NextCheckpoint)
	}

	updated, err := store.Get(session.ID)
	if err != nil {
		t.Fatalf("Get 실패: %v", err)
	}
	if updated.CurrentIndex != 1 {
		t.Errorf("CurrentIndex가 다릅니다: %d", updated.CurrentIndex)
	}
}

func TestReportPositionDoesNotPassCoordlessCheckpoint(t *testing.T) {
	store := NewSessionStore(utils.NewLogger())
	session := store.Create("강남", "역삼", "2호선", "하행", models.MobilityTags{}, testCheckpoints())

	if _, err := store.ReportPosition(session.ID, exitLat, exitLon); err != nil {
		t.Fatalf("ReportPosition 실패: %v", err)
	}

	// 다음은 좌표 없는 승강장 체크포인트: 같은 위치를 계속 보고해도 진행되지 않는다
	for i := 0; i < 3; i++ {
		result, err := store.ReportPosition(session.ID, exitLat, exitLon)
		if err != nil {
			t.Fatalf("ReportPosition 실패: %v", err)
		}
		if result.Reached {
			t.Fatal("좌표 없는 체크포인트가 위치 보고로 통과되었습니다")
		}
	}

	updated, _ := store.Get(session.ID)
	if updated.CurrentIndex != 1 {
		t.Errorf("CurrentIndex가 되돌아가거나 건너뛰었습니다: %d", updated.CurrentIndex)
	}
}

func TestAdvanceThroughCoordlessCheckpoints(t *testing.T) {
	store := NewSessionStore(utils.NewLogger())
	session := store.Create("강남", "역삼", "2호선", "하행", models.MobilityTags{}, testCheckpoints())

	if _, err := store.ReportPosition(session.ID, exitLat, exitLon); err != nil {
		t.Fatalf("ReportPosition 실패: %v", err)
	}

	// 승강장, 탑승 체크포인트는 명시적 진행 신호로 통과
	result, err := store.Advance(session.ID)
	if err != nil {
		t.Fatalf("Advance 실패: %v", err)
	}
	if !result.Reached || result.Checkpoint.Type != models.CheckpointOriginPlatform {
		t.Errorf("승강장 체크포인트 진행이 다릅니다: %+v", result.Checkpoint)
	}

	result, err = store.Advance(session.ID)
	if err != nil {
		t.Fatalf("Advance 실패: %v", err)
	}
	if !result.Reached || result.Checkpoint.Type != models.CheckpointBoarding {
		t.Errorf("탑승 체크포인트 진행이 다릅니다: %+v", result.Checkpoint)
	}

	// 마지막 출구는 지오펜스로 도달, 세션 완료
	result, err = store.ReportPosition(session.ID, 37.500622, 127.036456)
	if err != nil {
		t.Fatalf("ReportPosition 실패: %v", err)
	}
	if !result.Completed {
		t.Error("마지막 체크포인트 도달 시 세션이 완료되어야 합니다")
	}

	// 완료된 세션에 대한 추가 진행은 오류
	if _, err := store.Advance(session.ID); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("완료된 세션의 진행은 ErrSessionCompleted여야 합니다: %v", err)
	}
	if _, err := store.ReportPosition(session.ID, exitLat, exitLon); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("완료된 세션의 위치 보고는 ErrSessionCompleted여야 합니다: %v", err)
	}
}

func TestSessionNotFound(t *testing.T) {
	store := NewSessionStore(utils.NewLogger())

	if _, err := store.Get("없는-세션"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ErrSessionNotFound가 아닙니다: %v", err)
	}
	if _, err := store.ReportPosition("없는-세션", exitLat, exitLon); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ErrSessionNotFound가 아닙니다: %v", err)
	}
}

func TestEndSession(t *testing.T) {
	store := NewSessionStore(utils.NewLogger())
	session := store.Create("강남", "역삼", "2호선", "하행", models.MobilityTags{}, testCheckpoints())

	if store.Count() != 1 {
		t.Errorf("활성 세션 수가 다릅니다: %d", store.Count())
	}
	if err := store.End(session.ID); err != nil {
		t.Fatalf("End 실패: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("종료 후에도 세션이 남아 있습니다: %d", store.Count())
	}
	if err := store.End(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("중복 종료는 ErrSessionNotFound여야 합니다: %v", err)
	}
}
