package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/storage"
)

// BuildCorpus 설비 저장소에서 안내 지식 문단을 생성
// 기동 시 한 번 실행되어 문단 인덱스에 적재된다.
func BuildCorpus(ctx context.Context, repo storage.FacilityRepository) ([]models.GuidancePassage, error) {
	stations, err := repo.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("역 목록 조회 실패: %w", err)
	}

	var passages []models.GuidancePassage

	for _, station := range stations {
		exits, err := repo.ExitsByStation(ctx, station.ID)
		if err != nil {
			return nil, fmt.Errorf("출구 조회 실패 (역: %s): %w", station.Name, err)
		}

		for _, exit := range exits {
			if p := exitPassage(station, exit); p != nil {
				passages = append(passages, *p)
			}
		}

		edges, err := repo.PlatformEdges(ctx, station.ID)
		if err != nil {
			return nil, fmt.Errorf("승강장 연단 조회 실패 (역: %s): %w", station.Name, err)
		}
		passages = append(passages, boardingPassages(station, edges)...)

		chargers, err := repo.ChargingStations(ctx, station.ID)
		if err != nil {
			return nil, fmt.Errorf("충전기 조회 실패 (역: %s): %w", station.Name, err)
		}
		if p := chargerPassage(station, chargers); p != nil {
			passages = append(passages, *p)
		}
	}

	return passages, nil
}

// exitPassage 출구 접근 설비 문단 생성
func exitPassage(station models.Station, exit models.Exit) *models.GuidancePassage {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s역 %s번 출구", station.Name, exit.ExitNumber)

	if exit.HasElevator {
		sb.WriteString("에는 엘리베이터가 있습니다.")
		if exit.ElevatorLocation != "" {
			fmt.Fprintf(&sb, " 위치: %s.", exit.ElevatorLocation)
		}
		if exit.ButtonInfo != "" {
			fmt.Fprintf(&sb, " 호출 버튼: %s.", exit.ButtonInfo)
		}
		if exit.ElevatorMinutes > 0 {
			fmt.Fprintf(&sb, " 엘리베이터 이용 시 약 %d분 소요됩니다.", exit.ElevatorMinutes)
		}
	} else if exit.HasSlope {
		sb.WriteString("는 경사로로 접근할 수 있습니다.")
		if exit.SlopeInfo != "" {
			fmt.Fprintf(&sb, " %s.", exit.SlopeInfo)
		}
	} else {
		sb.WriteString("는 계단만 있어 휠체어 접근이 어렵습니다.")
	}

	if exit.Landmark != "" {
		fmt.Fprintf(&sb, " 주변 랜드마크: %s.", exit.Landmark)
	}
	if exit.GateDirection != "" {
		fmt.Fprintf(&sb, " 개찰구에서 %s.", exit.GateDirection)
	}

	return &models.GuidancePassage{
		ID:             fmt.Sprintf("exit-%d-%s", station.ID, exit.ExitNumber),
		CheckpointType: "출구",
		StationName:    station.Name,
		Text:           sb.String(),
	}
}

// boardingPassages 승차 위치 문단 생성 (방향별)
func boardingPassages(station models.Station, edges []models.PlatformEdge) []models.GuidancePassage {
	byDirection := make(map[string][]models.PlatformEdge)
	for _, edge := range edges {
		byDirection[edge.Direction] = append(byDirection[edge.Direction], edge)
	}

	var passages []models.GuidancePassage
	for direction, dirEdges := range byDirection {
		best := bestEdge(dirEdges)
		if best == nil {
			continue
		}

		text := fmt.Sprintf(
			"%s역 %s 승강장에서는 %d번째 칸 %d번째 문이 연단 간격이 %s이고 높이 차이가 %s으로 휠체어 승차에 가장 적합합니다.",
			station.Name, direction, best.CarNumber, best.DoorNumber, best.GapWidth, best.HeightDiff)

		passages = append(passages, models.GuidancePassage{
			ID:             fmt.Sprintf("boarding-%d-%s", station.ID, direction),
			CheckpointType: "탑승",
			StationName:    station.Name,
			Text:           text,
		})
	}

	return passages
}

// bestEdge 연단 간격과 높이 차이가 가장 유리한 칸 선택
func bestEdge(edges []models.PlatformEdge) *models.PlatformEdge {
	var best *models.PlatformEdge
	bestScore := -1

	for i := range edges {
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

	return best
}

// chargerPassage 충전기 현황 문단 생성
func chargerPassage(station models.Station, chargers []models.ChargingStation) *models.GuidancePassage {
	if len(chargers) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s역 휠체어 급속충전기 안내.", station.Name)
	for _, charger := range chargers {
		fmt.Fprintf(&sb, " %s(%s)에 %d대가 있습니다.",
			charger.Location, charger.FloorLevel, charger.ChargerCount)
		if charger.UsageFee != "" {
			fmt.Fprintf(&sb, " 이용 요금: %s.", charger.UsageFee)
		}
	}

	return &models.GuidancePassage{
		ID:             fmt.Sprintf("charger-%d", station.ID),
		CheckpointType: "충전소",
		StationName:    station.Name,
		Text:           sb.String(),
	}
}
