package models

import "time"

// SeverityStatus 안내 심각도 상태
type SeverityStatus string

const (
	StatusNormal  SeverityStatus = "정상"
	StatusCaution SeverityStatus = "주의"
	StatusWarning SeverityStatus = "경고"
)

// ElevatorUnit 엘리베이터 개별 설비 상태
type ElevatorUnit struct {
	StationName string   `json:"station_name"`
	Location    string   `json:"location"`
	ExitNumbers []string `json:"exit_numbers,omitempty"` // 위치 설명에서 추출한 출구 번호
	Working     bool     `json:"working"`
	RawStatus   string   `json:"raw_status"`
}

// ElevatorReport 역 단위 엘리베이터 가동 현황
type ElevatorReport struct {
	StationName string         `json:"station_name"`
	Units       []ElevatorUnit `json:"units"`
	AllWorking  bool           `json:"all_working"`
	Stale       bool           `json:"stale"` // 만료된 캐시 데이터로 응답한 경우
}

// WorkingAtExit 해당 출구에 가동 중인 엘리베이터가 있는지 확인
// 출구 번호를 특정할 수 없는 설비는 역 전체 설비로 간주한다.
func (er *ElevatorReport) WorkingAtExit(exitNumber string) bool {
	for _, unit := range er.Units {
		if !unit.Working {
			continue
		}
		if len(unit.ExitNumbers) == 0 {
			return true
		}
		for _, n := range unit.ExitNumbers {
			if n == exitNumber {
				return true
			}
		}
	}
	return false
}

// BrokenAtExit 해당 출구의 엘리베이터가 모두 미가동인지 확인
func (er *ElevatorReport) BrokenAtExit(exitNumber string) bool {
	found := false
	for _, unit := range er.Units {
		matches := false
		for _, n := range unit.ExitNumbers {
			if n == exitNumber {
				matches = true
				break
			}
		}
		if !matches {
			continue
		}
		found = true
		if unit.Working {
			return false
		}
	}
	return found
}

// ExitClosureReport 출구 통제 현황
type ExitClosureReport struct {
	StationName string `json:"station_name"`
	ExitNumber  string `json:"exit_number"`
	Closed      bool   `json:"closed"`
	Reason      string `json:"reason,omitempty"`
	Stale       bool   `json:"stale"`
}

// ChargerInfo 휠체어 급속충전기 현황 항목
type ChargerInfo struct {
	Location   string `json:"location"`
	FloorLevel string `json:"floor_level"`
	Count      int    `json:"count"`
	UsageFee   string `json:"usage_fee"`
}

// ChargerReport 역 단위 충전기 현황
type ChargerReport struct {
	StationName string        `json:"station_name"`
	Chargers    []ChargerInfo `json:"chargers"`
	Stale       bool          `json:"stale"`
}

// LiftInfo 휠체어 리프트 설치 정보
type LiftInfo struct {
	Location string `json:"location"`          // 설치 위치
	Section  string `json:"section,omitempty"` // 운행 구간 (예: "지상 1층 ~ 대합실")
}

// LiftReport 역 단위 휠체어 리프트 설치 현황
type LiftReport struct {
	StationName string     `json:"station_name"`
	Lifts       []LiftInfo `json:"lifts,omitempty"`
	Stale       bool       `json:"stale"`
}

// SafePlatformReport 승강장 안전발판 설치 현황
type SafePlatformReport struct {
	StationName string   `json:"station_name"`
	Installed   bool     `json:"installed"`
	Sections    []string `json:"sections,omitempty"` // 설치 위치 목록
	Stale       bool     `json:"stale"`
}

// TrainArrival 실시간 열차 도착 정보
type TrainArrival struct {
	Line        string `json:"line"`
	Direction   string `json:"direction"`
	Destination string `json:"destination"`
	Message     string `json:"message"` // 예: "전역 출발", "3분 후 도착"
	Seconds     int    `json:"seconds"` // 도착까지 남은 초 (0이면 정보 없음)
}

// ArrivalReport 역 단위 실시간 도착 현황
type ArrivalReport struct {
	StationName string         `json:"station_name"`
	Arrivals    []TrainArrival `json:"arrivals"`
	Stale       bool           `json:"stale"`
}

// TrainPosition 실시간 열차 위치 정보
type TrainPosition struct {
	TrainNo     string `json:"train_no"`
	Line        string `json:"line"`
	StationName string `json:"station_name"` // 현재 위치 역
	Direction   string `json:"direction"`
	Status      string `json:"status,omitempty"` // 예: "진입", "도착", "출발"
}

// PositionReport 호선 단위 실시간 열차 위치 현황
type PositionReport struct {
	Line      string          `json:"line"`
	Positions []TrainPosition `json:"positions,omitempty"`
	Stale     bool            `json:"stale"`
}

// LiveStatusSnapshot 하나의 역/출구에 대한 실시간 상태 스냅샷
// 업스트림 일부가 실패해도 가능한 부분만 채우고 Warnings에 기록한다.
type LiveStatusSnapshot struct {
	StationName  string             `json:"station_name"`
	Elevators    ElevatorReport     `json:"elevators"`
	ExitClosure  ExitClosureReport  `json:"exit_closure"`
	Chargers     ChargerReport      `json:"chargers"`
	Arrivals     ArrivalReport      `json:"arrivals"`
	Lifts        LiftReport         `json:"lifts"`
	SafePlatform SafePlatformReport `json:"safe_platform"`
	Positions    PositionReport     `json:"positions"`
	Warnings     []string           `json:"warnings,omitempty"`
	FetchedAt    time.Time          `json:"fetched_at"`
}

// GuidancePassage 안내 지식 문단 (검색 인덱스 문서)
type GuidancePassage struct {
	ID             string  `json:"id"`
	CheckpointType string  `json:"checkpoint_type"`
	StationName    string  `json:"station_name"`
	Text           string  `json:"text"`
	Score          float64 `json:"score,omitempty"`
}

// AlternativeRoute 대체 경로 안내
type AlternativeRoute struct {
	ExitNumber     string  `json:"exit_number"`
	Description    string  `json:"description"`
	DistanceMeters float64 `json:"distance_meters"`
	ExtraMinutes   int     `json:"extra_minutes"`
}

// GuidanceResult 체크포인트 안내 결과
type GuidanceResult struct {
	CheckpointID   int               `json:"checkpoint_id"`
	CheckpointType CheckpointType    `json:"checkpoint_type"`
	GuideText      string            `json:"guide_text"`
	Status         SeverityStatus    `json:"status"`
	Alternative    *AlternativeRoute `json:"alternative,omitempty"`
	Passages       []GuidancePassage `json:"passages,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
}
