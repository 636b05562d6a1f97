package utils

import "math"

// EarthRadiusMeters 지구 반지름 (미터)
const EarthRadiusMeters = 6371000.0

// HaversineDistance 두 좌표 사이의 거리 계산 (미터)
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// CompassDirection 시작 좌표에서 목표 좌표를 바라보는 8방위 방향 반환
func CompassDirection(fromLat, fromLon, toLat, toLon float64) string {
	dLon := (toLon - fromLon) * math.Pi / 180
	phi1 := fromLat * math.Pi / 180
	phi2 := toLat * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	if bearing < 0 {
		bearing += 360
	}

	directions := []string{"북쪽", "북동쪽", "동쪽", "남동쪽", "남쪽", "남서쪽", "서쪽", "북서쪽"}
	idx := int(math.Mod(bearing+22.5, 360) / 45)
	return directions[idx]
}

// WalkingMinutes 거리(미터) 기준 도보 소요 시간 (분)
// 휠체어/보행 보조기 사용자 기준 분당 50m로 계산
func WalkingMinutes(distanceMeters float64) int {
	minutes := int(math.Ceil(distanceMeters / 50.0))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
