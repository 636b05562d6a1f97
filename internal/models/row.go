package models

import "strconv"

// StationKey 모든 정규화 행에 보장되는 역명 키
const StationKey = "station"

// NormalizedRow 업스트림 응답 행의 정규화 표현
// 계열과 무관하게 평탄한 문자열 맵이며 StationKey가 항상 존재한다.
type NormalizedRow map[string]string

// Station 행의 역명 반환
func (r NormalizedRow) Station() string {
	return r[StationKey]
}

// Get 주어진 키들 중 처음으로 값이 있는 키의 값 반환
func (r NormalizedRow) Get(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// GetInt 정수 필드 값 반환 (파싱 실패 시 0)
func (r NormalizedRow) GetInt(keys ...string) int {
	if v := r.Get(keys...); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// Clone 행 복사본 반환
func (r NormalizedRow) Clone() NormalizedRow {
	c := make(NormalizedRow, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// NormalizeRow 원시 응답 행을 정규화 행으로 변환
// 스칼라 값은 문자열로 변환하고 stationField 값을 StationKey로 복사한다.
func NormalizeRow(raw map[string]interface{}, stationField string) NormalizedRow {
	row := make(NormalizedRow, len(raw)+1)
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			row[key] = v
		case float64:
			row[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			row[key] = strconv.FormatBool(v)
		case nil:
			row[key] = ""
		}
	}
	if station, ok := row[stationField]; ok {
		row[StationKey] = station
	} else if _, ok := row[StationKey]; !ok {
		row[StationKey] = ""
	}
	return row
}

// CloneRows 행 슬라이스 복사본 반환
func CloneRows(rows []NormalizedRow) []NormalizedRow {
	if rows == nil {
		return nil
	}
	out := make([]NormalizedRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
