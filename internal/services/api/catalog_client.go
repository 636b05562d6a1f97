package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// CatalogClient 서울 열린데이터광장 카탈로그 API 클라이언트
// 경로 세그먼트 기반 페이지네이션 방식의 응답을 정규화 행으로 변환한다.
type CatalogClient struct {
	APIClientBase
}

// NewCatalogClient 새로운 카탈로그 클라이언트 생성
func NewCatalogClient(cfg *config.Config, logger *utils.Logger) *CatalogClient {
	return &CatalogClient{
		APIClientBase: APIClientBase{
			config: cfg,
			logger: logger,
			client: &http.Client{
				Timeout: cfg.HTTPTimeout,
			},
		},
	}
}

// Family API 계열 반환
func (cc *CatalogClient) Family() models.APIFamily {
	return models.FamilyCatalog
}

// Fetch 페이지 스윕으로 리소스의 모든 행을 가져옴
// 페이지 크기보다 적은 행이 반환되면 마지막 페이지로 판단하고 종료한다.
func (cc *CatalogClient) Fetch(ctx context.Context, desc models.ServiceDescriptor, params map[string]string) ([]models.NormalizedRow, error) {
	pageSize := desc.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	maxRows := desc.MaxRows
	if maxRows <= 0 {
		maxRows = 10000
	}

	var allRows []models.NormalizedRow

	for start := 1; start <= maxRows; start += pageSize {
		end := start + pageSize - 1

		pageRows, total, err := cc.fetchPage(ctx, desc, start, end, params)
		if err != nil {
			return nil, err
		}

		allRows = append(allRows, pageRows...)

		// 마지막 페이지 판단: 페이지 크기 미만이거나 전체 건수 도달
		if len(pageRows) < pageSize {
			break
		}
		if total > 0 && len(allRows) >= total {
			break
		}
	}

	cc.logger.Debugf("카탈로그 조회 완료 - 리소스: %s, 행: %d건", desc.Name, len(allRows))
	return allRows, nil
}

// fetchPage 단일 페이지 조회
func (cc *CatalogClient) fetchPage(ctx context.Context, desc models.ServiceDescriptor, start, end int, params map[string]string) ([]models.NormalizedRow, int, error) {
	apiURL := cc.buildAPIURL(desc, start, end, params)
	cc.logger.Debugf("카탈로그 호출 URL: %s", utils.MaskSensitiveURL(apiURL, cc.config.CatalogServiceKey))

	body, err := cc.doGet(ctx, desc.Name, apiURL)
	if err != nil {
		return nil, 0, err
	}

	return cc.parseResponse(desc, body)
}

// parseResponse 카탈로그 응답 파싱
// 정상 응답은 리소스명 키 아래에 본문이 있고,
// 오류 응답은 최상위에 RESULT 블록만 담겨 온다.
func (cc *CatalogClient) parseResponse(desc models.ServiceDescriptor, body []byte) ([]models.NormalizedRow, int, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, 0, &MalformedEnvelopeError{Resource: desc.Name, Err: err}
	}

	raw, ok := envelope[desc.RowListKey()]
	if !ok {
		// 최상위 RESULT 오류 봉투 확인
		if resultRaw, hasResult := envelope["RESULT"]; hasResult {
			var result models.CatalogResult
			if err := json.Unmarshal(resultRaw, &result); err != nil {
				return nil, 0, &MalformedEnvelopeError{Resource: desc.Name, Err: err}
			}
			if result.IsEmpty() {
				return nil, 0, nil
			}
			return nil, 0, &UpstreamRejectedError{
				Resource: desc.Name,
				Code:     result.Code,
				Message:  result.Message,
			}
		}
		return nil, 0, &MalformedEnvelopeError{
			Resource: desc.Name,
			Err:      fmt.Errorf("응답에 %s 키가 없습니다", desc.RowListKey()),
		}
	}

	var payload models.CatalogPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, 0, &MalformedEnvelopeError{Resource: desc.Name, Err: err}
	}

	if !payload.Result.IsSuccess() {
		return nil, 0, &UpstreamRejectedError{
			Resource: desc.Name,
			Code:     payload.Result.Code,
			Message:  payload.Result.Message,
		}
	}

	rows := make([]models.NormalizedRow, 0, len(payload.Row))
	for _, rawRow := range payload.Row {
		rows = append(rows, models.NormalizeRow(rawRow, desc.StationField))
	}

	return rows, payload.ListTotalCount, nil
}

// buildAPIURL 카탈로그용 URL 생성
// 형식: {base}/{key}/json/{리소스}/{start}/{end}/[추가 세그먼트]
func (cc *CatalogClient) buildAPIURL(desc models.ServiceDescriptor, start, end int, params map[string]string) string {
	apiURL := fmt.Sprintf("%s/%s/json/%s/%d/%d/",
		cc.config.CatalogBaseURL,
		cc.config.CatalogServiceKey,
		desc.Name,
		start,
		end,
	)

	if station, ok := params["station"]; ok && station != "" {
		apiURL += url.PathEscape(station) + "/"
	}

	return apiURL
}
