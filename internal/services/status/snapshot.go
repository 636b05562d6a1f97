// Package status 업스트림 데이터를 역/출구 단위 실시간 상태로 조립한다.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/api"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/cache"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// StatusService 실시간 상태 스냅샷 조립 서비스
type StatusService struct {
	config  *config.Config
	logger  *utils.Logger
	cache   *cache.ResponseCache
	catalog api.UpstreamClient
	live    api.UpstreamClient
}

// NewStatusService 새로운 상태 서비스 생성
func NewStatusService(cfg *config.Config, logger *utils.Logger, respCache *cache.ResponseCache, catalog, live api.UpstreamClient) *StatusService {
	return &StatusService{
		config:  cfg,
		logger:  logger,
		cache:   respCache,
		catalog: catalog,
		live:    live,
	}
}

// fetchCached 캐시를 경유해 업스트림 행을 가져옴
// 공유 조회는 호출자 취소와 분리된 자체 타임아웃 컨텍스트로 수행한다.
func (ss *StatusService) fetchCached(client api.UpstreamClient, desc models.ServiceDescriptor, params map[string]string, cacheParam string) ([]models.NormalizedRow, bool, error) {
	key := desc.CacheKey(cacheParam)

	return ss.cache.GetOrFetch(key, desc.TTL, func() ([]models.NormalizedRow, error) {
		fetchCtx, cancel := context.WithTimeout(context.Background(), ss.config.HTTPTimeout)
		defer cancel()
		return client.Fetch(fetchCtx, desc, params)
	})
}

// ElevatorReport 역 엘리베이터 가동 현황 조회
// 설비 카탈로그 전체를 캐시하고 역명 정확 일치로 필터링한다.
func (ss *StatusService) ElevatorReport(ctx context.Context, stationName string) (models.ElevatorReport, error) {
	normalized := utils.NormalizeStationName(stationName)
	report := models.ElevatorReport{StationName: normalized, AllWorking: true}

	rows, stale, err := ss.fetchCached(ss.catalog, models.DescElevatorStatus, nil, "all")
	if err != nil {
		return report, err
	}
	report.Stale = stale

	for _, row := range rows {
		// 역명 부분 일치 배제 (잠실 != 잠실나루)
		if utils.NormalizeStationName(row.Station()) != normalized {
			continue
		}

		// 엘리베이터만 대상 (에스컬레이터 등 제외)
		if kind := row.Get("ELVTR_SE", "elvtr_se"); kind != "" && kind != "EV" && kind != "엘리베이터" {
			continue
		}

		location := row.Get("INSTL_PSTN", "ELVTR_NM", "instl_pstn")
		useYn := row.Get("USE_YN", "use_yn")
		working := useYn == "사용가능" || useYn == "Y"

		unit := models.ElevatorUnit{
			StationName: normalized,
			Location:    location,
			ExitNumbers: utils.ExtractExitNumbers(location),
			Working:     working,
			RawStatus:   useYn,
		}

		if !working {
			report.AllWorking = false
		}
		report.Units = append(report.Units, unit)
	}

	// 가동 현황 카탈로그에 역이 없으면 설비 상세 카탈로그로 보강
	// 상세 카탈로그는 설치 위치만 제공하므로 가동 중으로 간주한다.
	if len(report.Units) == 0 {
		detailRows, _, detailErr := ss.fetchCached(ss.catalog, models.DescStationElevator, nil, "all")
		if detailErr != nil {
			ss.logger.Warnf("엘리베이터 상세 설비 조회 실패 - 역: %s, 오류: %v", normalized, detailErr)
			return report, nil
		}

		for _, row := range detailRows {
			if utils.NormalizeStationName(row.Station()) != normalized {
				continue
			}
			location := row.Get("INSTL_PSTN", "ELVTR_NM", "instl_pstn")
			report.Units = append(report.Units, models.ElevatorUnit{
				StationName: normalized,
				Location:    location,
				ExitNumbers: utils.ExtractExitNumbers(location),
				Working:     true,
				RawStatus:   "상태 정보 없음",
			})
		}
	}

	return report, nil
}

// LiftReport 휠체어 리프트 설치 현황 조회
func (ss *StatusService) LiftReport(ctx context.Context, stationName string) (models.LiftReport, error) {
	normalized := utils.NormalizeStationName(stationName)
	report := models.LiftReport{StationName: normalized}

	rows, stale, err := ss.fetchCached(ss.catalog, models.DescWheelchairLift, nil, "all")
	if err != nil {
		return report, err
	}
	report.Stale = stale

	for _, row := range rows {
		if utils.NormalizeStationName(row.Station()) != normalized {
			continue
		}

		report.Lifts = append(report.Lifts, models.LiftInfo{
			Location: row.Get("INSTL_PSTN", "DTL_PSTN", "instl_pstn"),
			Section:  row.Get("OPR_SEC", "RUN_SCT", "opr_sec"),
		})
	}

	return report, nil
}

// SafePlatformReport 승강장 안전발판 설치 현황 조회
func (ss *StatusService) SafePlatformReport(ctx context.Context, stationName string) (models.SafePlatformReport, error) {
	normalized := utils.NormalizeStationName(stationName)
	report := models.SafePlatformReport{StationName: normalized}

	rows, stale, err := ss.fetchCached(ss.catalog, models.DescSafePlatform, nil, "all")
	if err != nil {
		return report, err
	}
	report.Stale = stale

	for _, row := range rows {
		if utils.NormalizeStationName(row.Station()) != normalized {
			continue
		}

		report.Installed = true
		if section := row.Get("INSTL_PSTN", "DTL_PSTN", "instl_pstn"); section != "" {
			report.Sections = append(report.Sections, section)
		}
	}

	return report, nil
}

// ExitClosureReport 출구 통제 현황 조회
func (ss *StatusService) ExitClosureReport(ctx context.Context, stationName, exitNumber string) (models.ExitClosureReport, error) {
	normalized := utils.NormalizeStationName(stationName)
	report := models.ExitClosureReport{StationName: normalized, ExitNumber: exitNumber}

	rows, stale, err := ss.fetchCached(ss.catalog, models.DescExitClosure, nil, "all")
	if err != nil {
		return report, err
	}
	report.Stale = stale

	for _, row := range rows {
		if utils.NormalizeStationName(row.Station()) != normalized {
			continue
		}

		rowExit := row.Get("EXIT_NO", "exit_no", "GATE_NO")
		if exitNumber != "" && rowExit != "" && rowExit != exitNumber {
			continue
		}

		closed := row.Get("CLSE_YN", "clse_yn") == "Y" || row.Get("STTS", "stts") == "통제"
		if closed {
			report.Closed = true
			report.Reason = row.Get("CLSE_RSN", "RMRK", "rmrk")
			if rowExit != "" {
				report.ExitNumber = rowExit
			}
			break
		}
	}

	return report, nil
}

// ChargerReport 휠체어 급속충전기 현황 조회
func (ss *StatusService) ChargerReport(ctx context.Context, stationName string) (models.ChargerReport, error) {
	normalized := utils.NormalizeStationName(stationName)
	report := models.ChargerReport{StationName: normalized}

	rows, stale, err := ss.fetchCached(ss.catalog, models.DescWheelchairCharger, nil, "all")
	if err != nil {
		return report, err
	}
	report.Stale = stale

	for _, row := range rows {
		if utils.NormalizeStationName(row.Station()) != normalized {
			continue
		}

		report.Chargers = append(report.Chargers, models.ChargerInfo{
			Location:   row.Get("INSTL_PSTN", "DTL_PSTN", "instl_pstn"),
			FloorLevel: row.Get("GRND_DVSN", "INSTL_FLR", "grnd_dvsn"),
			Count:      row.GetInt("CHRGR_CNT", "QTY", "chrgr_cnt"),
			UsageFee:   row.Get("UTLZ_CHRG", "FEE", "utlz_chrg"),
		})
	}

	return report, nil
}

// ArrivalReport 실시간 열차 도착 현황 조회
func (ss *StatusService) ArrivalReport(ctx context.Context, stationName string) (models.ArrivalReport, error) {
	normalized := utils.NormalizeStationName(stationName)
	report := models.ArrivalReport{StationName: normalized}

	params := map[string]string{"station": normalized}
	rows, stale, err := ss.fetchCached(ss.live, models.DescRealtimeArrival, params, normalized)
	if err != nil {
		return report, err
	}
	report.Stale = stale

	for _, row := range rows {
		report.Arrivals = append(report.Arrivals, models.TrainArrival{
			Line:        row.Get("subwayNm", "subwayId"),
			Direction:   row.Get("updnLine"),
			Destination: row.Get("bstatnNm", "trainLineNm"),
			Message:     row.Get("arvlMsg2", "arvlMsg3"),
			Seconds:     row.GetInt("barvlDt"),
		})
	}

	return report, nil
}

// PositionReport 호선 실시간 열차 위치 현황 조회
func (ss *StatusService) PositionReport(ctx context.Context, line string) (models.PositionReport, error) {
	report := models.PositionReport{Line: line}
	if line == "" {
		return report, nil
	}

	params := map[string]string{"line": line}
	rows, stale, err := ss.fetchCached(ss.live, models.DescRealtimePosition, params, line)
	if err != nil {
		return report, err
	}
	report.Stale = stale

	for _, row := range rows {
		report.Positions = append(report.Positions, models.TrainPosition{
			TrainNo:     row.Get("trainNo"),
			Line:        row.Get("subwayNm", "subwayId"),
			StationName: row.Station(),
			Direction:   row.Get("updnLine"),
			Status:      row.Get("trainSttus", "trainStatus"),
		})
	}

	return report, nil
}

// Snapshot 하나의 역/출구에 대한 실시간 상태 스냅샷 조립
// 업스트림 일부 실패는 경고로 기록하고 가능한 부분만 채운다.
// line이 빈 문자열이 아니면 해당 호선의 열차 위치도 포함한다.
func (ss *StatusService) Snapshot(ctx context.Context, stationName, exitNumber, line string) *models.LiveStatusSnapshot {
	normalized := utils.NormalizeStationName(stationName)
	snapshot := &models.LiveStatusSnapshot{
		StationName: normalized,
		FetchedAt:   time.Now(),
	}

	elevators, err := ss.ElevatorReport(ctx, stationName)
	if err != nil {
		ss.logger.Warnf("엘리베이터 현황 조회 실패 - 역: %s, 오류: %v", normalized, err)
		snapshot.Warnings = append(snapshot.Warnings,
			fmt.Sprintf("%s역 엘리베이터 실시간 정보를 확인할 수 없습니다", normalized))
		elevators = models.ElevatorReport{StationName: normalized, AllWorking: true}
	}
	snapshot.Elevators = elevators
	if elevators.Stale {
		snapshot.Warnings = append(snapshot.Warnings, "엘리베이터 정보가 최신이 아닐 수 있습니다")
	}

	closure, err := ss.ExitClosureReport(ctx, stationName, exitNumber)
	if err != nil {
		ss.logger.Warnf("출구 통제 현황 조회 실패 - 역: %s, 오류: %v", normalized, err)
		snapshot.Warnings = append(snapshot.Warnings,
			fmt.Sprintf("%s역 출구 통제 정보를 확인할 수 없습니다", normalized))
		closure = models.ExitClosureReport{StationName: normalized, ExitNumber: exitNumber}
	}
	snapshot.ExitClosure = closure
	if closure.Stale {
		snapshot.Warnings = append(snapshot.Warnings, "출구 통제 정보가 최신이 아닐 수 있습니다")
	}

	chargers, err := ss.ChargerReport(ctx, stationName)
	if err != nil {
		ss.logger.Warnf("충전기 현황 조회 실패 - 역: %s, 오류: %v", normalized, err)
		chargers = models.ChargerReport{StationName: normalized}
	}
	snapshot.Chargers = chargers

	arrivals, err := ss.ArrivalReport(ctx, stationName)
	if err != nil {
		ss.logger.Warnf("실시간 도착 조회 실패 - 역: %s, 오류: %v", normalized, err)
		snapshot.Warnings = append(snapshot.Warnings,
			fmt.Sprintf("%s역 열차 도착 정보를 확인할 수 없습니다", normalized))
		arrivals = models.ArrivalReport{StationName: normalized}
	}
	snapshot.Arrivals = arrivals

	lifts, err := ss.LiftReport(ctx, stationName)
	if err != nil {
		ss.logger.Warnf("휠체어 리프트 현황 조회 실패 - 역: %s, 오류: %v", normalized, err)
		lifts = models.LiftReport{StationName: normalized}
	}
	snapshot.Lifts = lifts

	safePlatform, err := ss.SafePlatformReport(ctx, stationName)
	if err != nil {
		ss.logger.Warnf("안전발판 현황 조회 실패 - 역: %s, 오류: %v", normalized, err)
		safePlatform = models.SafePlatformReport{StationName: normalized}
	}
	snapshot.SafePlatform = safePlatform

	if line != "" {
		positions, err := ss.PositionReport(ctx, line)
		if err != nil {
			ss.logger.Warnf("실시간 열차 위치 조회 실패 - 호선: %s, 오류: %v", line, err)
			positions = models.PositionReport{Line: line}
		}
		snapshot.Positions = positions
	}

	return snapshot
}
