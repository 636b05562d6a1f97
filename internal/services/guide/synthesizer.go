// Package guide 체크포인트 안내문 합성을 담당한다.
package guide

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// Request 안내 합성 요청
type Request struct {
	CheckpointID   int
	CheckpointType models.CheckpointType
	Station        *models.Station
	Exit           *models.Exit   // 대상 출구 (없을 수 있음)
	Exits          []models.Exit  // 같은 역의 전체 출구 (대체 경로 탐색용)
	Boarding       *models.BoardingGuide
	Direction      string
	Destination    string
	Tags           models.MobilityTags
}

// Synthesizer 설비 정보, 실시간 상태, 지식 문단을 하나의 안내로 합성
type Synthesizer struct {
	narrator Narrator // nil이면 템플릿만 사용
	logger   *utils.Logger
}

// NewSynthesizer 새로운 합성기 생성
func NewSynthesizer(narrator Narrator, logger *utils.Logger) *Synthesizer {
	return &Synthesizer{
		narrator: narrator,
		logger:   logger,
	}
}

// Synthesize 체크포인트 안내 합성
// 항상 결과를 반환하며 생성 모델 실패 시 템플릿 안내로 폴백한다.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request, snapshot *models.LiveStatusSnapshot, passages []models.GuidancePassage) *models.GuidanceResult {
	paragraphs := buildTemplate(req, snapshot)

	status, alternative, statusLines := s.assess(req, snapshot)
	paragraphs = append(paragraphs, statusLines...)

	// 검색된 지식 문단 반영 (최대 2개)
	for i, passage := range passages {
		if i >= 2 {
			break
		}
		paragraphs = append(paragraphs, "참고: "+passage.Text)
	}

	result := &models.GuidanceResult{
		CheckpointID:   req.CheckpointID,
		CheckpointType: req.CheckpointType,
		GuideText:      strings.Join(paragraphs, "\n\n"),
		Status:         status,
		Alternative:    alternative,
		Passages:       passages,
		GeneratedAt:    time.Now(),
	}

	if snapshot != nil {
		result.Warnings = append(result.Warnings, snapshot.Warnings...)
	}

	// 생성 모델로 문장 다듬기 (실패 시 템플릿 유지)
	if s.narrator != nil {
		narrated, err := s.narrator.Narrate(ctx, result.GuideText)
		if err != nil {
			s.logger.Warnf("안내문 생성 실패, 템플릿 안내 사용 - 체크포인트: %d, 오류: %v",
				req.CheckpointID, err)
		} else if narrated != "" {
			result.GuideText = narrated
		}
	}

	return result
}

// assess 심각도 판정과 대체 경로 탐색
func (s *Synthesizer) assess(req Request, snapshot *models.LiveStatusSnapshot) (models.SeverityStatus, *models.AlternativeRoute, []string) {
	if snapshot == nil || req.Exit == nil {
		return models.StatusNormal, nil, nil
	}

	isExitCheckpoint := req.CheckpointType == models.CheckpointOriginExit ||
		req.CheckpointType == models.CheckpointArrivalExit ||
		req.CheckpointType == models.CheckpointOrigin
	if !isExitCheckpoint {
		// 승강장/탑승 단계는 역 전체 엘리베이터 상태만 반영
		if !snapshot.Elevators.AllWorking && req.Tags.NeedElevator {
			return models.StatusCaution, nil,
				[]string{"이 역의 일부 엘리베이터가 점검 중입니다. 이동에 여유 시간을 두세요."}
		}
		return models.StatusNormal, nil, nil
	}

	exitNumber := req.Exit.ExitNumber

	// 출구 통제 확인
	if snapshot.ExitClosure.Closed &&
		(snapshot.ExitClosure.ExitNumber == "" || snapshot.ExitClosure.ExitNumber == exitNumber) {
		lines := []string{fmt.Sprintf("%s번 출구가 현재 통제 중입니다.", exitNumber)}
		if snapshot.ExitClosure.Reason != "" {
			lines[0] += fmt.Sprintf(" 사유: %s.", snapshot.ExitClosure.Reason)
		}

		alternative := s.findAlternative(req, snapshot)
		if alternative != nil {
			lines = append(lines, alternative.Description)
		} else {
			lines = append(lines, "현재 이용 가능한 대체 출구가 없습니다. 역무원 호출 버튼을 이용해 도움을 요청하세요.")
		}
		return models.StatusWarning, alternative, lines
	}

	// 엘리베이터 필요 이용자의 출구 접근성 확인
	if req.Tags.NeedElevator {
		broken := snapshot.Elevators.BrokenAtExit(exitNumber)
		if !req.Exit.HasElevator || broken {
			var lines []string
			if broken {
				lines = append(lines, fmt.Sprintf("%s번 출구 엘리베이터가 현재 점검 중입니다.", exitNumber))
			} else {
				lines = append(lines, fmt.Sprintf("%s번 출구에는 엘리베이터가 없습니다.", exitNumber))
			}

			alternative := s.findAlternative(req, snapshot)
			if alternative != nil {
				lines = append(lines, alternative.Description)
			} else {
				lines = append(lines, "현재 이용 가능한 대체 출구가 없습니다. 역무원 호출 버튼을 이용해 도움을 요청하세요.")
			}
			return models.StatusWarning, alternative, lines
		}

		if !snapshot.Elevators.AllWorking {
			return models.StatusCaution, nil,
				[]string{"이 역의 일부 엘리베이터가 점검 중입니다. 안내된 출구의 엘리베이터는 정상 가동 중입니다."}
		}
	}

	return models.StatusNormal, nil, nil
}

// findAlternative 같은 역에서 가동 중인 엘리베이터가 있는 가장 가까운 다른 출구 탐색
// 거리가 같으면 출구 번호 오름차순으로 선택한다.
func (s *Synthesizer) findAlternative(req Request, snapshot *models.LiveStatusSnapshot) *models.AlternativeRoute {
	current := req.Exit
	if current == nil {
		return nil
	}

	type candidate struct {
		exit     models.Exit
		distance float64
	}

	var candidates []candidate
	for _, exit := range req.Exits {
		if exit.ExitNumber == current.ExitNumber {
			continue
		}
		if !exit.HasElevator {
			continue
		}
		if snapshot != nil && snapshot.Elevators.BrokenAtExit(exit.ExitNumber) {
			continue
		}
		if snapshot != nil && snapshot.ExitClosure.Closed && snapshot.ExitClosure.ExitNumber == exit.ExitNumber {
			continue
		}

		distance := utils.HaversineDistance(current.Lat, current.Lon, exit.Lat, exit.Lon)
		candidates = append(candidates, candidate{exit: exit, distance: distance})
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return exitNumberLess(candidates[i].exit.ExitNumber, candidates[j].exit.ExitNumber)
	})

	best := candidates[0]
	extraMinutes := utils.WalkingMinutes(best.distance)

	return &models.AlternativeRoute{
		ExitNumber: best.exit.ExitNumber,
		Description: fmt.Sprintf("가까운 %s번 출구 엘리베이터를 이용하세요. 약 %.0fm, 도보 %d분 거리입니다.",
			best.exit.ExitNumber, best.distance, extraMinutes),
		DistanceMeters: best.distance,
		ExtraMinutes:   extraMinutes,
	}
}

// exitNumberLess 출구 번호 비교 (숫자 우선, 숫자가 아니면 문자열 비교)
func exitNumberLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
