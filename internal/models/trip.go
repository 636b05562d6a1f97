package models

import (
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// CheckpointType 체크포인트 단계 구분
type CheckpointType string

const (
	CheckpointOrigin          CheckpointType = "출발지"
	CheckpointOriginExit      CheckpointType = "출발역_출구"
	CheckpointOriginPlatform  CheckpointType = "출발역_승강장"
	CheckpointPlatformWait    CheckpointType = "승강장_대기"
	CheckpointBoarding        CheckpointType = "열차_탑승"
	CheckpointArrivalPlatform CheckpointType = "도착역_승강장"
	CheckpointArrivalExit     CheckpointType = "도착역_출구"
	CheckpointCharging        CheckpointType = "충전소"
)

// 지오펜스 반경 기본값 (미터)
const (
	DefaultCheckpointRadius = 30.0
	ChargingStationRadius   = 50.0
)

// MobilityTags 이용자 이동 특성 태그
type MobilityTags struct {
	MobilityLevel    string `json:"mobility_level" validate:"omitempty,oneof=수동휠체어 전동휠체어 보행보조기 목발 노약자"`
	NeedElevator     bool   `json:"need_elevator"`
	AvoidStairs      bool   `json:"avoid_stairs"`
	NeedChargingInfo bool   `json:"need_charging_info"`
}

// TripRequest 경로 안내 요청
type TripRequest struct {
	StartStation string       `json:"start_station" validate:"required,min=1"`
	EndStation   string       `json:"end_station" validate:"required,min=1"`
	UserLat      float64      `json:"user_lat" validate:"gte=-90,lte=90"`
	UserLon      float64      `json:"user_lon" validate:"gte=-180,lte=180"`
	Direction    string       `json:"direction"` // 상행/하행 (비어있으면 자동 판단)
	Tags         MobilityTags `json:"tags"`
}

// Checkpoint 경로 상의 안내 지점
// 좌표가 없는 체크포인트(HasCoords=false)는 지오펜스 대신
// 명시적 진행 신호로만 통과 처리된다.
type Checkpoint struct {
	ID           int               `json:"id"`
	Type         CheckpointType    `json:"type"`
	Name         string            `json:"name"`
	StationName  string            `json:"station_name"`
	ExitNumber   string            `json:"exit_number,omitempty"`
	Lat          float64           `json:"lat,omitempty"`
	Lon          float64           `json:"lon,omitempty"`
	HasCoords    bool              `json:"has_coords"`
	RadiusMeters float64           `json:"radius_meters"`
	Data         map[string]string `json:"data,omitempty"`
}

// Reached 주어진 위치가 지오펜스 반경 이내인지 확인
// 반경과 정확히 같은 거리도 도달로 판정한다.
func (cp *Checkpoint) Reached(lat, lon float64) (bool, float64) {
	if !cp.HasCoords {
		return false, 0
	}
	distance := utils.HaversineDistance(lat, lon, cp.Lat, cp.Lon)
	return distance <= cp.RadiusMeters, distance
}

// TripSession 진행 중인 안내 세션
// CurrentIndex는 엄격하게 단조 증가하며 되돌아가지 않는다.
type TripSession struct {
	ID           string       `json:"session_id"`
	StartStation string       `json:"start_station"`
	EndStation   string       `json:"end_station"`
	Line         string       `json:"line"`
	Direction    string       `json:"direction"`
	Tags         MobilityTags `json:"tags"`
	Checkpoints  []Checkpoint `json:"checkpoints"`
	CurrentIndex int          `json:"current_index"`
	Completed    bool         `json:"completed"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Current 현재 체크포인트 반환
func (ts *TripSession) Current() *Checkpoint {
	if ts.CurrentIndex < 0 || ts.CurrentIndex >= len(ts.Checkpoints) {
		return nil
	}
	return &ts.Checkpoints[ts.CurrentIndex]
}

// Next 다음 체크포인트 반환 (마지막이면 nil)
func (ts *TripSession) Next() *Checkpoint {
	if ts.CurrentIndex+1 >= len(ts.Checkpoints) {
		return nil
	}
	return &ts.Checkpoints[ts.CurrentIndex+1]
}

// BoardingGuide 최적 승차 위치 안내
type BoardingGuide struct {
	CarNumber  int    `json:"car_number"`
	DoorNumber int    `json:"door_number"`
	Reason     string `json:"reason"`
}

// TripPlan 경로 안내 결과
type TripPlan struct {
	SessionID        string         `json:"session_id"`
	StartStation     string         `json:"start_station"`
	EndStation       string         `json:"end_station"`
	Line             string         `json:"line"`
	Direction        string         `json:"direction"`
	DistanceMeters   float64        `json:"distance_meters"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	RecommendedExit  string         `json:"recommended_exit"`
	WalkingGuide     string         `json:"walking_guide,omitempty"` // 현재 위치 기준 출발 출구 도보 안내
	Boarding         *BoardingGuide `json:"boarding,omitempty"`
	Checkpoints      []Checkpoint   `json:"checkpoints"`
	NextTrain        *TrainArrival  `json:"next_train,omitempty"`
	ElevatorSummary  string         `json:"elevator_summary"`
	Warnings         []string       `json:"warnings,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}
