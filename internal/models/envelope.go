package models

import "encoding/json"

// CatalogResult 카탈로그 API 응답의 RESULT 블록
type CatalogResult struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

// IsSuccess 허용 코드 여부 확인 (INFO-000: 정상, INFO-200: 데이터 없음)
func (r CatalogResult) IsSuccess() bool {
	return r.Code == "INFO-000" || r.Code == "INFO-200"
}

// IsEmpty 데이터 없음 코드 여부 확인
func (r CatalogResult) IsEmpty() bool {
	return r.Code == "INFO-200"
}

// CatalogPayload 카탈로그 응답에서 리소스명 키 아래의 본문
type CatalogPayload struct {
	ListTotalCount int                      `json:"list_total_count"`
	Result         CatalogResult            `json:"RESULT"`
	Row            []map[string]interface{} `json:"row"`
}

// UnmarshalJSON 단일 객체 row를 단일 원소 배열로 처리하는 커스텀 언마샬링
func (p *CatalogPayload) UnmarshalJSON(data []byte) error {
	type alias struct {
		ListTotalCount int             `json:"list_total_count"`
		Result         CatalogResult   `json:"RESULT"`
		Row            json.RawMessage `json:"row"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	p.ListTotalCount = a.ListTotalCount
	p.Result = a.Result
	p.Row = nil

	if len(a.Row) == 0 || string(a.Row) == `null` || string(a.Row) == `""` {
		return nil
	}

	// 배열 시도 후 단일 객체 폴백
	var rows []map[string]interface{}
	if err := json.Unmarshal(a.Row, &rows); err == nil {
		p.Row = rows
		return nil
	}

	var single map[string]interface{}
	if err := json.Unmarshal(a.Row, &single); err != nil {
		return err
	}
	p.Row = []map[string]interface{}{single}
	return nil
}

// LiveErrorMessage 실시간 API가 행 목록 자리에 반환하는 오류 객체
type LiveErrorMessage struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkResponse Elasticsearch 벌크 응답 구조체
type BulkResponse struct {
	Took   int64 `json:"took"`
	Errors bool  `json:"errors"`
	Items  []struct {
		Index struct {
			Index   string `json:"_index"`
			ID      string `json:"_id"`
			Version int    `json:"_version"`
			Result  string `json:"result"`
			Status  int    `json:"status"`
			Error   *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error,omitempty"`
		} `json:"index"`
	} `json:"items"`
}
