package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// PostgresFacilityRepository PostgreSQL 기반 설비 저장소
type PostgresFacilityRepository struct {
	pool   *pgxpool.Pool
	logger *utils.Logger
}

// NewPostgresFacilityRepository 새로운 PostgreSQL 설비 저장소 생성
func NewPostgresFacilityRepository(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*PostgresFacilityRepository, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("설비 DB 연결 풀 생성 실패: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("설비 DB 연결 확인 실패: %w", err)
	}

	return &PostgresFacilityRepository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close 연결 풀 종료
func (r *PostgresFacilityRepository) Close() {
	r.pool.Close()
}

// StationByName 역명으로 역 조회
// 정규화된 이름의 정확 일치를 먼저 시도하고 접두사 일치로 폴백한다.
func (r *PostgresFacilityRepository) StationByName(ctx context.Context, name string) (*models.Station, error) {
	normalized := utils.NormalizeStationName(name)
	if normalized == "" {
		return nil, ErrStationNotFound
	}

	const exactQuery = `
		SELECT id, name, line, lat, lon
		FROM stations
		WHERE name = $1
		LIMIT 1`

	station, err := r.scanStation(r.pool.QueryRow(ctx, exactQuery, normalized))
	if err == nil {
		return station, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("역 조회 실패 (%s): %w", normalized, err)
	}

	const prefixQuery = `
		SELECT id, name, line, lat, lon
		FROM stations
		WHERE name LIKE $1 || '%'
		ORDER BY name
		LIMIT 1`

	station, err = r.scanStation(r.pool.QueryRow(ctx, prefixQuery, normalized))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("역 조회 실패 (%s): %w", normalized, err)
	}

	return station, nil
}

func (r *PostgresFacilityRepository) scanStation(row pgx.Row) (*models.Station, error) {
	var s models.Station
	if err := row.Scan(&s.ID, &s.Name, &s.Line, &s.Lat, &s.Lon); err != nil {
		return nil, err
	}
	return &s, nil
}

// Stations 전체 역 목록 반환
func (r *PostgresFacilityRepository) Stations(ctx context.Context) ([]models.Station, error) {
	const query = `
		SELECT id, name, line, lat, lon
		FROM stations
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("역 목록 조회 실패: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Line, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("역 목록 스캔 실패: %w", err)
		}
		stations = append(stations, s)
	}

	return stations, rows.Err()
}

// ExitsByStation 역의 전체 출구 목록 반환
func (r *PostgresFacilityRepository) ExitsByStation(ctx context.Context, stationID int64) ([]models.Exit, error) {
	const query = `
		SELECT station_id, exit_number, lat, lon,
		       has_elevator, elevator_location, elevator_minutes, button_info,
		       gate_direction, landmark, has_slope, slope_info, floor_level
		FROM station_exits
		WHERE station_id = $1
		ORDER BY exit_number`

	rows, err := r.pool.Query(ctx, query, stationID)
	if err != nil {
		return nil, fmt.Errorf("출구 목록 조회 실패 (역 ID: %d): %w", stationID, err)
	}
	defer rows.Close()

	var exits []models.Exit
	for rows.Next() {
		var e models.Exit
		if err := rows.Scan(&e.StationID, &e.ExitNumber, &e.Lat, &e.Lon,
			&e.HasElevator, &e.ElevatorLocation, &e.ElevatorMinutes, &e.ButtonInfo,
			&e.GateDirection, &e.Landmark, &e.HasSlope, &e.SlopeInfo, &e.FloorLevel); err != nil {
			return nil, fmt.Errorf("출구 목록 스캔 실패: %w", err)
		}
		exits = append(exits, e)
	}

	return exits, rows.Err()
}

// ExitByNumber 역의 특정 출구 조회
func (r *PostgresFacilityRepository) ExitByNumber(ctx context.Context, stationID int64, exitNumber string) (*models.Exit, error) {
	const query = `
		SELECT station_id, exit_number, lat, lon,
		       has_elevator, elevator_location, elevator_minutes, button_info,
		       gate_direction, landmark, has_slope, slope_info, floor_level
		FROM station_exits
		WHERE station_id = $1 AND exit_number = $2
		LIMIT 1`

	var e models.Exit
	err := r.pool.QueryRow(ctx, query, stationID, exitNumber).Scan(
		&e.StationID, &e.ExitNumber, &e.Lat, &e.Lon,
		&e.HasElevator, &e.ElevatorLocation, &e.ElevatorMinutes, &e.ButtonInfo,
		&e.GateDirection, &e.Landmark, &e.HasSlope, &e.SlopeInfo, &e.FloorLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("출구 조회 실패 (역 ID: %d, 출구: %s): %w", stationID, exitNumber, err)
	}

	return &e, nil
}

// PlatformEdges 역의 승강장 연단 정보 반환
func (r *PostgresFacilityRepository) PlatformEdges(ctx context.Context, stationID int64) ([]models.PlatformEdge, error) {
	const query = `
		SELECT station_id, direction, car_number, door_number,
		       gap_width, height_diff, platform_shape
		FROM platform_edges
		WHERE station_id = $1
		ORDER BY car_number, door_number`

	rows, err := r.pool.Query(ctx, query, stationID)
	if err != nil {
		return nil, fmt.Errorf("승강장 연단 조회 실패 (역 ID: %d): %w", stationID, err)
	}
	defer rows.Close()

	var edges []models.PlatformEdge
	for rows.Next() {
		var e models.PlatformEdge
		if err := rows.Scan(&e.StationID, &e.Direction, &e.CarNumber, &e.DoorNumber,
			&e.GapWidth, &e.HeightDiff, &e.PlatformShape); err != nil {
			return nil, fmt.Errorf("승강장 연단 스캔 실패: %w", err)
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// ChargingStations 역의 휠체어 급속충전기 목록 반환
func (r *PostgresFacilityRepository) ChargingStations(ctx context.Context, stationID int64) ([]models.ChargingStation, error) {
	const query = `
		SELECT station_id, location, floor_level, charger_count, usage_fee
		FROM charging_stations
		WHERE station_id = $1
		ORDER BY location`

	rows, err := r.pool.Query(ctx, query, stationID)
	if err != nil {
		return nil, fmt.Errorf("충전기 조회 실패 (역 ID: %d): %w", stationID, err)
	}
	defer rows.Close()

	var chargers []models.ChargingStation
	for rows.Next() {
		var c models.ChargingStation
		if err := rows.Scan(&c.StationID, &c.Location, &c.FloorLevel, &c.ChargerCount, &c.UsageFee); err != nil {
			return nil, fmt.Errorf("충전기 스캔 실패: %w", err)
		}
		chargers = append(chargers, c)
	}

	return chargers, rows.Err()
}
