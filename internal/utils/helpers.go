// internal/utils/helpers.go
package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// MaskSensitiveURL serviceKey가 포함된 URL에서 민감한 정보 마스킹
func MaskSensitiveURL(url, serviceKey string) string {
	if len(serviceKey) > 10 {
		masked := serviceKey[:6] + "***" + serviceKey[len(serviceKey)-4:]
		url = strings.ReplaceAll(url, serviceKey, masked)
	}
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}

var stationLineSuffix = regexp.MustCompile(`\(\d+\)$`)

// NormalizeStationName 역명 정규화
// 앞뒤 공백과 호선 표기 "(2)", 접미사 "역"을 제거한다.
// 예: "강남역 " -> "강남", "잠실(2)" -> "잠실"
func NormalizeStationName(name string) string {
	name = strings.TrimSpace(name)
	name = stationLineSuffix.ReplaceAllString(name, "")
	name = strings.TrimSuffix(name, "역")
	return strings.TrimSpace(name)
}

var exitNumberPattern = regexp.MustCompile(`(\d+)번\s*출`)

// ExtractExitNumbers 설비 위치 설명 텍스트에서 출구 번호 추출
// 예: "3번 출구 방면, 7번 출입구 인근" -> ["3", "7"]
func ExtractExitNumbers(text string) []string {
	matches := exitNumberPattern.FindAllStringSubmatch(text, -1)
	var numbers []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			numbers = append(numbers, m[1])
		}
	}
	return numbers
}

// FormatExitName 출구 번호를 표시용 이름으로 변환
func FormatExitName(exitNumber string) string {
	return fmt.Sprintf("%s번 출구", exitNumber)
}
