package storage

import (
	"context"
	"errors"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
)

// ErrStationNotFound 역 조회 실패
var ErrStationNotFound = errors.New("역을 찾을 수 없습니다")

// ErrExitNotFound 출구 조회 실패
var ErrExitNotFound = errors.New("출구를 찾을 수 없습니다")

// FacilityRepository 역/출구/승강장/충전기 설비 조회 저장소
// 설비 데이터는 외부에서 적재되며 이 모듈은 읽기만 한다.
type FacilityRepository interface {
	// StationByName 역명으로 역 조회 (정규화된 이름 기준)
	StationByName(ctx context.Context, name string) (*models.Station, error)

	// Stations 전체 역 목록 반환
	Stations(ctx context.Context) ([]models.Station, error)

	// ExitsByStation 역의 전체 출구 목록 반환
	ExitsByStation(ctx context.Context, stationID int64) ([]models.Exit, error)

	// ExitByNumber 역의 특정 출구 조회
	ExitByNumber(ctx context.Context, stationID int64, exitNumber string) (*models.Exit, error)

	// PlatformEdges 역의 승강장 연단 정보 반환
	PlatformEdges(ctx context.Context, stationID int64) ([]models.PlatformEdge, error)

	// ChargingStations 역의 휠체어 급속충전기 목록 반환
	ChargingStations(ctx context.Context, stationID int64) ([]models.ChargingStation, error)
}
