package storage

import (
	"context"
	"sync"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// MemoryFacilityRepository 메모리 기반 설비 저장소
// 설비 DB가 설정되지 않은 환경과 테스트에서 사용한다.
type MemoryFacilityRepository struct {
	mu       sync.RWMutex
	stations []models.Station
	exits    map[int64][]models.Exit
	edges    map[int64][]models.PlatformEdge
	chargers map[int64][]models.ChargingStation
}

// NewMemoryFacilityRepository 새로운 메모리 설비 저장소 생성
func NewMemoryFacilityRepository() *MemoryFacilityRepository {
	return &MemoryFacilityRepository{
		exits:    make(map[int64][]models.Exit),
		edges:    make(map[int64][]models.PlatformEdge),
		chargers: make(map[int64][]models.ChargingStation),
	}
}

// AddStation 역과 부속 설비 등록
func (r *MemoryFacilityRepository) AddStation(station models.Station, exits []models.Exit, edges []models.PlatformEdge, chargers []models.ChargingStation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stations = append(r.stations, station)
	r.exits[station.ID] = append(r.exits[station.ID], exits...)
	r.edges[station.ID] = append(r.edges[station.ID], edges...)
	r.chargers[station.ID] = append(r.chargers[station.ID], chargers...)
}

// StationByName 역명으로 역 조회
func (r *MemoryFacilityRepository) StationByName(ctx context.Context, name string) (*models.Station, error) {
	normalized := utils.NormalizeStationName(name)
	if normalized == "" {
		return nil, ErrStationNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.stations {
		if r.stations[i].Name == normalized {
			s := r.stations[i]
			return &s, nil
		}
	}

	return nil, ErrStationNotFound
}

// Stations 전체 역 목록 반환
func (r *MemoryFacilityRepository) Stations(ctx context.Context) ([]models.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Station, len(r.stations))
	copy(out, r.stations)
	return out, nil
}

// ExitsByStation 역의 전체 출구 목록 반환
func (r *MemoryFacilityRepository) ExitsByStation(ctx context.Context, stationID int64) ([]models.Exit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Exit, len(r.exits[stationID]))
	copy(out, r.exits[stationID])
	return out, nil
}

// ExitByNumber 역의 특정 출구 조회
func (r *MemoryFacilityRepository) ExitByNumber(ctx context.Context, stationID int64, exitNumber string) (*models.Exit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, exit := range r.exits[stationID] {
		if exit.ExitNumber == exitNumber {
			e := exit
			return &e, nil
		}
	}

	return nil, ErrExitNotFound
}

// PlatformEdges 역의 승강장 연단 정보 반환
func (r *MemoryFacilityRepository) PlatformEdges(ctx context.Context, stationID int64) ([]models.PlatformEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PlatformEdge, len(r.edges[stationID]))
	copy(out, r.edges[stationID])
	return out, nil
}

// ChargingStations 역의 휠체어 급속충전기 목록 반환
func (r *MemoryFacilityRepository) ChargingStations(ctx context.Context, stationID int64) ([]models.ChargingStation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ChargingStation, len(r.chargers[stationID]))
	copy(out, r.chargers[stationID])
	return out, nil
}
