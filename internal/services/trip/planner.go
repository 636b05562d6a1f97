package trip

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/status"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/storage"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// 지하철 평균 이동 속도 (m/분), 최소 소요 시간 (분)
const (
	subwaySpeedPerMinute = 600.0
	minimumTripMinutes   = 5
)

// Planner 경로 계획 서비스
type Planner struct {
	repo     storage.FacilityRepository
	status   *status.StatusService
	sessions *SessionStore
	validate *validator.Validate
	logger   *utils.Logger
}

// NewPlanner 새로운 경로 계획 서비스 생성
func NewPlanner(repo storage.FacilityRepository, statusSvc *status.StatusService, sessions *SessionStore, logger *utils.Logger) *Planner {
	return &Planner{
		repo:     repo,
		status:   statusSvc,
		sessions: sessions,
		validate: validator.New(),
		logger:   logger,
	}
}

// AssembleTrip 경로 계획 수립 및 안내 세션 생성
func (p *Planner) AssembleTrip(ctx context.Context, req models.TripRequest) (*models.TripPlan, error) {
	if err := p.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("요청 검증 실패: %w", err)
	}

	startStation, err := p.repo.StationByName(ctx, req.StartStation)
	if err != nil {
		return nil, fmt.Errorf("출발역 조회 실패 (%s): %w", req.StartStation, err)
	}

	endStation, err := p.repo.StationByName(ctx, req.EndStation)
	if err != nil {
		return nil, fmt.Errorf("도착역 조회 실패 (%s): %w", req.EndStation, err)
	}

	startExits, err := p.repo.ExitsByStation(ctx, startStation.ID)
	if err != nil {
		return nil, fmt.Errorf("출발역 출구 조회 실패: %w", err)
	}
	endExits, err := p.repo.ExitsByStation(ctx, endStation.ID)
	if err != nil {
		return nil, fmt.Errorf("도착역 출구 조회 실패: %w", err)
	}

	var warnings []string

	// 실시간 엘리베이터 현황 (실패 시 설비 정보만으로 진행)
	startElevators, err := p.status.ElevatorReport(ctx, startStation.Name)
	if err != nil {
		p.logger.Warnf("출발역 엘리베이터 현황 조회 실패: %v", err)
		warnings = append(warnings, fmt.Sprintf("%s역 엘리베이터 실시간 정보를 확인할 수 없습니다", startStation.Name))
		startElevators = models.ElevatorReport{StationName: startStation.Name, AllWorking: true}
	}
	endElevators, err := p.status.ElevatorReport(ctx, endStation.Name)
	if err != nil {
		p.logger.Warnf("도착역 엘리베이터 현황 조회 실패: %v", err)
		warnings = append(warnings, fmt.Sprintf("%s역 엘리베이터 실시간 정보를 확인할 수 없습니다", endStation.Name))
		endElevators = models.ElevatorReport{StationName: endStation.Name, AllWorking: true}
	}

	startExit := p.selectStartExit(startExits, req, &startElevators)
	if startExit == nil {
		return nil, fmt.Errorf("출발역 %s에 이용 가능한 출구가 없습니다", startStation.Name)
	}
	endExit := p.selectEndExit(endExits, req.Tags, &endElevators)

	direction := req.Direction
	if direction == "" {
		direction = inferDirection(startStation, endStation)
	}

	// 도착역 승강장 연단 기준 최적 승차 위치
	edges, err := p.repo.PlatformEdges(ctx, endStation.ID)
	if err != nil {
		p.logger.Warnf("승강장 연단 조회 실패: %v", err)
	}
	boarding := optimalBoarding(edges, direction, endExit)

	// 충전소 정보 (선택)
	var chargers []models.ChargingStation
	if req.Tags.NeedChargingInfo {
		chargers, err = p.repo.ChargingStations(ctx, endStation.ID)
		if err != nil {
			p.logger.Warnf("충전기 조회 실패: %v", err)
		}
	}

	checkpoints := buildCheckpoints(req, startStation, endStation, startExit, endExit, boarding, chargers)

	distance := utils.HaversineDistance(startStation.Lat, startStation.Lon, endStation.Lat, endStation.Lon)
	minutes := int(math.Ceil(distance / subwaySpeedPerMinute))
	if minutes < minimumTripMinutes {
		minutes = minimumTripMinutes
	}

	// 출발역 실시간 도착 정보 (실패는 경고 처리)
	var nextTrain *models.TrainArrival
	arrivals, err := p.status.ArrivalReport(ctx, startStation.Name)
	if err != nil {
		p.logger.Warnf("실시간 도착 조회 실패: %v", err)
		warnings = append(warnings, "실시간 열차 도착 정보를 확인할 수 없습니다")
	} else {
		for i := range arrivals.Arrivals {
			if direction == "" || arrivals.Arrivals[i].Direction == direction {
				nextTrain = &arrivals.Arrivals[i]
				break
			}
		}
	}

	session := p.sessions.Create(startStation.Name, endStation.Name, startStation.Line, direction, req.Tags, checkpoints)

	plan := &models.TripPlan{
		SessionID:        session.ID,
		StartStation:     startStation.Name,
		EndStation:       endStation.Name,
		Line:             startStation.Line,
		Direction:        direction,
		DistanceMeters:   distance,
		EstimatedMinutes: minutes,
		RecommendedExit:  startExit.ExitNumber,
		WalkingGuide:     walkingGuide(req, startExit),
		Boarding:         boarding,
		Checkpoints:      checkpoints,
		NextTrain:        nextTrain,
		ElevatorSummary:  elevatorSummary(&startElevators, &endElevators),
		Warnings:         warnings,
		CreatedAt:        time.Now(),
	}

	return plan, nil
}

// walkingGuide 현재 위치에서 출발 출구까지의 도보 안내 문구 생성
// 8방위 방향, 거리, 도보 시간에 경사로와 주변 랜드마크 정보를 덧붙인다.
// 현재 위치나 출구 좌표가 없으면 빈 문자열을 반환한다.
func walkingGuide(req models.TripRequest, exit *models.Exit) string {
	if req.UserLat == 0 && req.UserLon == 0 {
		return ""
	}
	if exit.Lat == 0 && exit.Lon == 0 {
		return ""
	}

	distance := utils.HaversineDistance(req.UserLat, req.UserLon, exit.Lat, exit.Lon)
	direction := utils.CompassDirection(req.UserLat, req.UserLon, exit.Lat, exit.Lon)
	minutes := utils.WalkingMinutes(distance)

	var sb strings.Builder
	fmt.Fprintf(&sb, "현재 위치에서 %s으로 약 %.0fm, 도보 %d분 거리에 %s가 있습니다.",
		direction, distance, minutes, utils.FormatExitName(exit.ExitNumber))
	if exit.Landmark != "" {
		fmt.Fprintf(&sb, " %s 근처입니다.", exit.Landmark)
	}
	if exit.HasSlope {
		sb.WriteString(" 경사로가 설치된 출구입니다.")
		if exit.SlopeInfo != "" {
			sb.WriteString(" " + exit.SlopeInfo)
		}
	}

	return sb.String()
}

// selectStartExit 출발 출구 선정
// 엘리베이터 필요 이용자는 가동 중인 엘리베이터 출구를 우선하고,
// 같은 조건이면 현재 위치에서 가까운 출구를 택한다.
func (p *Planner) selectStartExit(exits []models.Exit, req models.TripRequest, elevators *models.ElevatorReport) *models.Exit {
	if len(exits) == 0 {
		return nil
	}

	type scored struct {
		exit     models.Exit
		score    int
		distance float64
	}

	hasUserLocation := req.UserLat != 0 || req.UserLon != 0

	candidates := make([]scored, 0, len(exits))
	for _, exit := range exits {
		s := scored{exit: exit}

		if exit.HasElevator {
			s.score += 10
			if !elevators.BrokenAtExit(exit.ExitNumber) {
				s.score += 5
			}
		} else if exit.HasSlope {
			s.score += 3
		}

		if req.Tags.NeedElevator && !exit.HasElevator {
			continue
		}
		if req.Tags.NeedElevator && elevators.BrokenAtExit(exit.ExitNumber) {
			continue
		}

		if hasUserLocation {
			s.distance = utils.HaversineDistance(req.UserLat, req.UserLon, exit.Lat, exit.Lon)
		}

		candidates = append(candidates, s)
	}

	// 엘리베이터 필요 조건을 만족하는 출구가 없으면 전체에서 선택
	if len(candidates) == 0 {
		for _, exit := range exits {
			s := scored{exit: exit}
			if hasUserLocation {
				s.distance = utils.HaversineDistance(req.UserLat, req.UserLon, exit.Lat, exit.Lon)
			}
			candidates = append(candidates, s)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].exit.ExitNumber < candidates[j].exit.ExitNumber
	})

	best := candidates[0].exit
	return &best
}

// selectEndExit 도착 출구 선정 (가동 중인 엘리베이터 출구 중 번호가 낮은 출구)
func (p *Planner) selectEndExit(exits []models.Exit, tags models.MobilityTags, elevators *models.ElevatorReport) *models.Exit {
	var fallback *models.Exit

	for i := range exits {
		exit := exits[i]
		if fallback == nil {
			fallback = &exit
		}
		if !exit.HasElevator {
			continue
		}
		if tags.NeedElevator && elevators.BrokenAtExit(exit.ExitNumber) {
			continue
		}
		return &exit
	}

	return fallback
}

// inferDirection 역 ID 순서로 상행/하행 추정
// 방향이 요청에 없을 때의 기본값이며 노선 데이터에 따라 보정이 필요할 수 있다.
func inferDirection(start, end *models.Station) string {
	if end.ID > start.ID {
		return "하행"
	}
	return "상행"
}

// optimalBoarding 연단 간격과 높이 차이가 유리한 승차 위치 선정
func optimalBoarding(edges []models.PlatformEdge, direction string, endExit *models.Exit) *models.BoardingGuide {
	var best *models.PlatformEdge
	bestScore := -1

	for i := range edges {
		if direction != "" && edges[i].Direction != "" && edges[i].Direction != direction {
			continue
		}

		score := 0
		switch edges[i].GapWidth {
		case "넓음":
			score += 2
		case "보통":
			score += 1
		}
		switch edges[i].HeightDiff {
		case "낮음":
			score += 2
		case "보통":
			score += 1
		}

		if score > bestScore {
			bestScore = score
			best = &edges[i]
		}
	}

	if best == nil {
		return nil
	}

	reason := "승강장과 열차 사이 단차가 적어 승하차가 편한 위치입니다."
	if endExit != nil && endExit.HasElevator {
		reason = fmt.Sprintf("도착역 %s번 출구 엘리베이터와 가깝고 승하차가 편한 위치입니다.", endExit.ExitNumber)
	}

	return &models.BoardingGuide{
		CarNumber:  best.CarNumber,
		DoorNumber: best.DoorNumber,
		Reason:     reason,
	}
}

// buildCheckpoints 경로 체크포인트 목록 생성
// 지상 지점(출발지, 출구)은 좌표와 지오펜스를 갖고,
// 역사 내부 지점은 명시적 진행 신호로만 통과된다.
func buildCheckpoints(req models.TripRequest, start, end *models.Station, startExit, endExit *models.Exit, boarding *models.BoardingGuide, chargers []models.ChargingStation) []models.Checkpoint {
	var checkpoints []models.Checkpoint
	id := 0

	add := func(cp models.Checkpoint) {
		cp.ID = id
		id++
		checkpoints = append(checkpoints, cp)
	}

	hasUserLocation := req.UserLat != 0 || req.UserLon != 0
	add(models.Checkpoint{
		Type:         models.CheckpointOrigin,
		Name:         "출발지",
		StationName:  start.Name,
		Lat:          req.UserLat,
		Lon:          req.UserLon,
		HasCoords:    hasUserLocation,
		RadiusMeters: models.DefaultCheckpointRadius,
	})

	add(models.Checkpoint{
		Type:         models.CheckpointOriginExit,
		Name:         fmt.Sprintf("%s역 %s", start.Name, utils.FormatExitName(startExit.ExitNumber)),
		StationName:  start.Name,
		ExitNumber:   startExit.ExitNumber,
		Lat:          startExit.Lat,
		Lon:          startExit.Lon,
		HasCoords:    startExit.Lat != 0 || startExit.Lon != 0,
		RadiusMeters: models.DefaultCheckpointRadius,
	})

	add(models.Checkpoint{
		Type:        models.CheckpointOriginPlatform,
		Name:        fmt.Sprintf("%s역 승강장", start.Name),
		StationName: start.Name,
	})

	add(models.Checkpoint{
		Type:        models.CheckpointPlatformWait,
		Name:        "승강장 대기",
		StationName: start.Name,
	})

	boardingCheckpoint := models.Checkpoint{
		Type:        models.CheckpointBoarding,
		Name:        "열차 탑승",
		StationName: start.Name,
	}
	if boarding != nil {
		boardingCheckpoint.Data = map[string]string{
			"car":    strconv.Itoa(boarding.CarNumber),
			"door":   strconv.Itoa(boarding.DoorNumber),
			"reason": boarding.Reason,
		}
	}
	add(boardingCheckpoint)

	add(models.Checkpoint{
		Type:        models.CheckpointArrivalPlatform,
		Name:        fmt.Sprintf("%s역 승강장", end.Name),
		StationName: end.Name,
	})

	arrivalExit := models.Checkpoint{
		Type:         models.CheckpointArrivalExit,
		Name:         fmt.Sprintf("%s역 출구", end.Name),
		StationName:  end.Name,
		RadiusMeters: models.DefaultCheckpointRadius,
	}
	if endExit != nil {
		arrivalExit.Name = fmt.Sprintf("%s역 %s", end.Name, utils.FormatExitName(endExit.ExitNumber))
		arrivalExit.ExitNumber = endExit.ExitNumber
		arrivalExit.Lat = endExit.Lat
		arrivalExit.Lon = endExit.Lon
		arrivalExit.HasCoords = endExit.Lat != 0 || endExit.Lon != 0
	}
	add(arrivalExit)

	// 충전소 체크포인트는 충전 정보 요청 시에만 추가
	if req.Tags.NeedChargingInfo && len(chargers) > 0 {
		add(models.Checkpoint{
			Type:         models.CheckpointCharging,
			Name:         fmt.Sprintf("%s역 휠체어 충전소", end.Name),
			StationName:  end.Name,
			RadiusMeters: models.ChargingStationRadius,
			Data: map[string]string{
				"location": chargers[0].Location,
			},
		})
	}

	return checkpoints
}

// elevatorSummary 출발/도착역 엘리베이터 현황 요약 문구
func elevatorSummary(start, end *models.ElevatorReport) string {
	describe := func(report *models.ElevatorReport) string {
		if len(report.Units) == 0 {
			return "정보 없음"
		}
		if report.AllWorking {
			return "전체 정상"
		}
		working := 0
		for _, unit := range report.Units {
			if unit.Working {
				working++
			}
		}
		return fmt.Sprintf("%d대 중 %d대 가동", len(report.Units), working)
	}

	return fmt.Sprintf("출발역 엘리베이터: %s, 도착역 엘리베이터: %s", describe(start), describe(end))
}
