package models

import "time"

// APIFamily 업스트림 API 계열 구분
type APIFamily string

const (
	// FamilyCatalog 서울 열린데이터광장 카탈로그 API (페이지네이션 방식)
	FamilyCatalog APIFamily = "catalog"
	// FamilyLive 서울 지하철 실시간 API (역명 키 방식)
	FamilyLive APIFamily = "live"
)

// ServiceDescriptor 업스트림 리소스 서술자
// 리소스명, 소속 API 계열, 응답 파싱에 필요한 키, 캐시 TTL을 한 곳에 모은다.
type ServiceDescriptor struct {
	Name         string        // 업스트림 리소스명 (URL 경로 세그먼트)
	Family       APIFamily     // 소속 API 계열
	ListKey      string        // 행 목록이 담긴 응답 키 (비어있으면 Name 사용)
	StationField string        // 행에서 역명을 담은 필드명
	PageSize     int           // 카탈로그 페이지 크기
	MaxRows      int           // 페이지 스윕 상한
	TTL          time.Duration // 응답 캐시 유지 시간
}

// 리소스 서술자 레지스트리
// TTL 등급: 설비 카탈로그 1시간, 출구 통제 10분, 실시간 1분
var (
	// DescElevatorStatus 지하철 역사 편의시설 현황 (엘리베이터 가동 상태 포함)
	DescElevatorStatus = ServiceDescriptor{
		Name:         "SeoulMetroFaciInfo",
		Family:       FamilyCatalog,
		StationField: "STN_NM",
		PageSize:     1000,
		MaxRows:      10000,
		TTL:          time.Hour,
	}

	// DescExitClosure 역 출입구 공사/통제 정보
	DescExitClosure = ServiceDescriptor{
		Name:         "TbSubwayLineDetail",
		Family:       FamilyCatalog,
		StationField: "SBWY_STNS_NM",
		PageSize:     1000,
		MaxRows:      5000,
		TTL:          10 * time.Minute,
	}

	// DescStationElevator 역별 엘리베이터 상세 위치 정보
	DescStationElevator = ServiceDescriptor{
		Name:         "getWksnElvtr",
		Family:       FamilyCatalog,
		StationField: "STN_NM",
		PageSize:     1000,
		MaxRows:      5000,
		TTL:          time.Hour,
	}

	// DescSafePlatform 승강장 안전발판 설치 정보
	DescSafePlatform = ServiceDescriptor{
		Name:         "getWksnSafePlfm",
		Family:       FamilyCatalog,
		StationField: "STN_NM",
		PageSize:     1000,
		MaxRows:      5000,
		TTL:          time.Hour,
	}

	// DescWheelchairCharger 휠체어 급속충전기 설치 정보
	DescWheelchairCharger = ServiceDescriptor{
		Name:         "getWksnWhclCharge",
		Family:       FamilyCatalog,
		StationField: "STN_NM",
		PageSize:     1000,
		MaxRows:      5000,
		TTL:          time.Hour,
	}

	// DescWheelchairLift 휠체어 리프트 설치 정보
	DescWheelchairLift = ServiceDescriptor{
		Name:         "getWksnWhcllift",
		Family:       FamilyCatalog,
		StationField: "STN_NM",
		PageSize:     1000,
		MaxRows:      5000,
		TTL:          time.Hour,
	}

	// DescRealtimeArrival 역 실시간 열차 도착 정보
	DescRealtimeArrival = ServiceDescriptor{
		Name:         "realtimeStationArrival",
		Family:       FamilyLive,
		ListKey:      "realtimeArrivalList",
		StationField: "statnNm",
		TTL:          time.Minute,
	}

	// DescRealtimePosition 호선별 실시간 열차 위치 정보
	DescRealtimePosition = ServiceDescriptor{
		Name:         "realtimePosition",
		Family:       FamilyLive,
		ListKey:      "realtimePositionList",
		StationField: "statnNm",
		TTL:          time.Minute,
	}
)

// RowListKey 행 목록이 담긴 응답 키 반환
func (d ServiceDescriptor) RowListKey() string {
	if d.ListKey != "" {
		return d.ListKey
	}
	return d.Name
}

// CacheKey 파라미터를 포함한 캐시 키 생성
func (d ServiceDescriptor) CacheKey(param string) string {
	if param == "" {
		param = "all"
	}
	return string(d.Family) + "/" + d.Name + "/" + param
}
