package guide

import (
	"fmt"
	"strings"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
)

// buildTemplate 체크포인트 유형별 결정적 안내 문단 생성
// 생성 모델이 없거나 실패해도 이 템플릿만으로 안내가 완결되어야 한다.
func buildTemplate(req Request, snapshot *models.LiveStatusSnapshot) []string {
	switch req.CheckpointType {
	case models.CheckpointOrigin:
		return originGuide(req)
	case models.CheckpointOriginExit, models.CheckpointArrivalExit:
		return exitGuide(req)
	case models.CheckpointOriginPlatform, models.CheckpointArrivalPlatform:
		return platformGuide(req, snapshot)
	case models.CheckpointPlatformWait:
		return waitingGuide(req, snapshot)
	case models.CheckpointBoarding:
		return boardingGuide(req)
	case models.CheckpointCharging:
		return chargingGuide(req, snapshot)
	default:
		return []string{fmt.Sprintf("%s역 안내입니다.", req.Station.Name)}
	}
}

// originGuide 출발지 안내
func originGuide(req Request) []string {
	paragraphs := []string{
		fmt.Sprintf("%s역으로 이동을 시작합니다.", req.Station.Name),
	}

	if req.Exit != nil {
		line := fmt.Sprintf("%s번 출구 방향으로 이동하세요.", req.Exit.ExitNumber)
		if req.Exit.Landmark != "" {
			line += fmt.Sprintf(" %s 근처에 있습니다.", req.Exit.Landmark)
		}
		paragraphs = append(paragraphs, line)
	}

	return paragraphs
}

// exitGuide 출구 진입/진출 안내
func exitGuide(req Request) []string {
	if req.Exit == nil {
		return []string{fmt.Sprintf("%s역 출구로 이동하세요.", req.Station.Name)}
	}

	exit := req.Exit
	paragraphs := []string{
		fmt.Sprintf("%s역 %s번 출구입니다.", req.Station.Name, exit.ExitNumber),
	}

	if exit.HasElevator {
		var sb strings.Builder
		sb.WriteString("엘리베이터를 이용하세요.")
		if exit.ElevatorLocation != "" {
			fmt.Fprintf(&sb, " 엘리베이터는 %s에 있습니다.", exit.ElevatorLocation)
		}
		if exit.ButtonInfo != "" {
			fmt.Fprintf(&sb, " 호출 버튼은 %s에 있습니다.", exit.ButtonInfo)
		}
		if exit.ElevatorMinutes > 0 {
			fmt.Fprintf(&sb, " 약 %d분 소요됩니다.", exit.ElevatorMinutes)
		}
		paragraphs = append(paragraphs, sb.String())
	} else if exit.HasSlope {
		line := "경사로를 이용해 이동하세요."
		if exit.SlopeInfo != "" {
			line += " " + exit.SlopeInfo
		}
		paragraphs = append(paragraphs, line)
	}

	if exit.GateDirection != "" {
		paragraphs = append(paragraphs, fmt.Sprintf("개찰구에서 %s.", exit.GateDirection))
	}

	return paragraphs
}

// platformGuide 승강장 이동 안내
func platformGuide(req Request, snapshot *models.LiveStatusSnapshot) []string {
	action := "개찰구를 지나 승강장으로 이동하세요."
	if req.CheckpointType == models.CheckpointArrivalPlatform {
		action = "하차 후 승강장에서 출구 방향 엘리베이터로 이동하세요."
	}

	paragraphs := []string{
		fmt.Sprintf("%s역 승강장 안내입니다.", req.Station.Name),
		action,
	}

	if req.Tags.NeedElevator {
		paragraphs = append(paragraphs, "승강장 엘리베이터는 교통약자 우선 설비입니다. 탑승 전 호출 버튼을 이용하세요.")
	}

	// 엘리베이터 점검 중이면 리프트를 대안으로 안내
	if snapshot != nil && !snapshot.Elevators.AllWorking && len(snapshot.Lifts.Lifts) > 0 {
		lift := snapshot.Lifts.Lifts[0]
		line := fmt.Sprintf("엘리베이터 점검 시 %s의 휠체어 리프트를 이용할 수 있습니다.", lift.Location)
		if lift.Section != "" {
			line += fmt.Sprintf(" 운행 구간은 %s입니다.", lift.Section)
		}
		paragraphs = append(paragraphs, line)
	}

	return paragraphs
}

// waitingGuide 승강장 대기 안내 (실시간 도착 정보 포함)
func waitingGuide(req Request, snapshot *models.LiveStatusSnapshot) []string {
	paragraphs := []string{
		fmt.Sprintf("%s역 승강장에서 열차를 기다리세요.", req.Station.Name),
	}

	if arrival := nextArrival(snapshot, req.Direction); arrival != nil {
		line := fmt.Sprintf("%s %s 열차", arrival.Destination, arrival.Direction)
		if arrival.Message != "" {
			line += fmt.Sprintf(": %s", arrival.Message)
		} else if arrival.Seconds > 0 {
			line += fmt.Sprintf("가 약 %d분 후 도착합니다.", (arrival.Seconds+59)/60)
		}
		paragraphs = append(paragraphs, line)
	} else if pos := nearbyTrain(snapshot, req.Direction); pos != nil {
		// 도착 정보가 없으면 열차 위치 정보로 대신 안내
		line := fmt.Sprintf("%s 열차가 현재 %s역 부근을 운행 중입니다.", pos.Direction, pos.StationName)
		if pos.Status != "" {
			line = fmt.Sprintf("%s 열차가 현재 %s역 %s 중입니다.", pos.Direction, pos.StationName, pos.Status)
		}
		paragraphs = append(paragraphs, line)
	}

	if snapshot != nil && snapshot.SafePlatform.Installed {
		line := "이 역 승강장에는 접이식 안전발판이 설치되어 있어 휠체어 승하차 시 도움을 받을 수 있습니다."
		if len(snapshot.SafePlatform.Sections) > 0 {
			line += fmt.Sprintf(" 설치 위치: %s.", strings.Join(snapshot.SafePlatform.Sections, ", "))
		}
		paragraphs = append(paragraphs, line)
	}

	paragraphs = append(paragraphs, "안전선 안쪽에서 대기하시고, 스크린도어가 완전히 열린 후 이동하세요.")
	return paragraphs
}

// nearbyTrain 방향이 맞는 첫 번째 열차 위치 정보 반환
func nearbyTrain(snapshot *models.LiveStatusSnapshot, direction string) *models.TrainPosition {
	if snapshot == nil {
		return nil
	}

	for i := range snapshot.Positions.Positions {
		pos := &snapshot.Positions.Positions[i]
		if direction == "" || pos.Direction == direction {
			return pos
		}
	}

	return nil
}

// boardingGuide 열차 탑승 안내
func boardingGuide(req Request) []string {
	paragraphs := []string{
		fmt.Sprintf("%s역에서 열차에 탑승합니다.", req.Station.Name),
	}

	if req.Boarding != nil {
		line := fmt.Sprintf("%d번째 칸 %d번째 문으로 탑승하세요.", req.Boarding.CarNumber, req.Boarding.DoorNumber)
		if req.Boarding.Reason != "" {
			line += " " + req.Boarding.Reason
		}
		paragraphs = append(paragraphs, line)
	}

	if req.Destination != "" {
		paragraphs = append(paragraphs, fmt.Sprintf("%s역에서 하차합니다.", req.Destination))
	}

	return paragraphs
}

// chargingGuide 휠체어 충전소 안내
func chargingGuide(req Request, snapshot *models.LiveStatusSnapshot) []string {
	paragraphs := []string{
		fmt.Sprintf("%s역 휠체어 급속충전기 안내입니다.", req.Station.Name),
	}

	if snapshot != nil && len(snapshot.Chargers.Chargers) > 0 {
		for _, charger := range snapshot.Chargers.Chargers {
			line := fmt.Sprintf("%s에 충전기 %d대가 있습니다.", charger.Location, charger.Count)
			if charger.FloorLevel != "" {
				line = fmt.Sprintf("%s(%s)에 충전기 %d대가 있습니다.", charger.Location, charger.FloorLevel, charger.Count)
			}
			if charger.UsageFee != "" {
				line += fmt.Sprintf(" 이용 요금: %s.", charger.UsageFee)
			}
			paragraphs = append(paragraphs, line)
		}
	} else {
		paragraphs = append(paragraphs, "이 역의 충전기 현황 정보를 확인할 수 없습니다. 역무실에 문의하세요.")
	}

	return paragraphs
}

// nextArrival 방향에 맞는 첫 번째 도착 정보 반환
func nextArrival(snapshot *models.LiveStatusSnapshot, direction string) *models.TrainArrival {
	if snapshot == nil {
		return nil
	}

	for i := range snapshot.Arrivals.Arrivals {
		arrival := &snapshot.Arrivals.Arrivals[i]
		if direction == "" || arrival.Direction == direction {
			return arrival
		}
	}

	return nil
}
