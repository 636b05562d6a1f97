package models

// Station 지하철 역 기본 정보
type Station struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Line string  `json:"line"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Exit 역 출구 및 접근 설비 정보
type Exit struct {
	StationID        int64   `json:"station_id"`
	ExitNumber       string  `json:"exit_number"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	HasElevator      bool    `json:"has_elevator"`
	ElevatorLocation string  `json:"elevator_location"` // 예: "출구 우측 10m"
	ElevatorMinutes  int     `json:"elevator_minutes"`  // 엘리베이터 이용 소요 시간 (분)
	ButtonInfo       string  `json:"button_info"`       // 호출 버튼 위치 안내
	GateDirection    string  `json:"gate_direction"`    // 개찰구 기준 방향 안내
	Landmark         string  `json:"landmark"`          // 주변 랜드마크
	HasSlope         bool    `json:"has_slope"`
	SlopeInfo        string  `json:"slope_info"`
	FloorLevel       string  `json:"floor_level"`
}

// PlatformEdge 승강장 연단 정보 (칸/문 단위)
type PlatformEdge struct {
	StationID     int64  `json:"station_id"`
	Direction     string `json:"direction"` // 상행/하행 또는 내선/외선
	CarNumber     int    `json:"car_number"`
	DoorNumber    int    `json:"door_number"`
	GapWidth      string `json:"gap_width"`   // 넓음/보통/좁음
	HeightDiff    string `json:"height_diff"` // 높음/보통/낮음
	PlatformShape string `json:"platform_shape"`
}

// ChargingStation 휠체어 급속충전기 설치 정보
type ChargingStation struct {
	StationID    int64  `json:"station_id"`
	Location     string `json:"location"`
	FloorLevel   string `json:"floor_level"`
	ChargerCount int    `json:"charger_count"`
	UsageFee     string `json:"usage_fee"`
}
