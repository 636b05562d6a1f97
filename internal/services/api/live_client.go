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

// LiveClient 서울 지하철 실시간 API 클라이언트
// 역명 키 방식이며 오류 시 행 목록 자리에 오류 객체가 온다.
type LiveClient struct {
	APIClientBase
}

// NewLiveClient 새로운 실시간 클라이언트 생성
func NewLiveClient(cfg *config.Config, logger *utils.Logger) *LiveClient {
	return &LiveClient{
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
func (lc *LiveClient) Family() models.APIFamily {
	return models.FamilyLive
}

// Fetch 역명 기준 실시간 행을 가져옴
// params["station"]은 접미사 "역"을 제거한 형태로 요청해야 응답이 온다.
func (lc *LiveClient) Fetch(ctx context.Context, desc models.ServiceDescriptor, params map[string]string) ([]models.NormalizedRow, error) {
	key := params["station"]
	if key == "" {
		key = params["line"]
	}
	if key == "" {
		return nil, &UpstreamUnavailableError{
			Resource: desc.Name,
			Err:      fmt.Errorf("station 또는 line 파라미터가 필요합니다"),
		}
	}
	key = utils.NormalizeStationName(key)

	apiURL := lc.buildAPIURL(desc, key)
	lc.logger.Debugf("실시간 호출 URL: %s", utils.MaskSensitiveURL(apiURL, lc.config.LiveServiceKey))

	body, err := lc.doGet(ctx, desc.Name, apiURL)
	if err != nil {
		return nil, err
	}

	return lc.parseResponse(desc, body)
}

// parseResponse 실시간 응답 파싱
// 행 목록 키가 없거나 목록 자리에 오류 객체가 있으면 0행으로 처리한다.
func (lc *LiveClient) parseResponse(desc models.ServiceDescriptor, body []byte) ([]models.NormalizedRow, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MalformedEnvelopeError{Resource: desc.Name, Err: err}
	}

	raw, ok := envelope[desc.RowListKey()]
	if !ok {
		// 데이터 없음 또는 오류 안내 응답
		if msgRaw, hasMsg := envelope["errorMessage"]; hasMsg {
			var errMsg models.LiveErrorMessage
			if err := json.Unmarshal(msgRaw, &errMsg); err == nil && errMsg.Message != "" {
				lc.logger.Debugf("실시간 응답 안내 (리소스: %s): %s", desc.Name, errMsg.Message)
			}
		}
		return nil, nil
	}

	var rawRows []map[string]interface{}
	if err := json.Unmarshal(raw, &rawRows); err != nil {
		// 목록 자리에 오류 객체가 온 경우 0행으로 처리
		var errMsg models.LiveErrorMessage
		if objErr := json.Unmarshal(raw, &errMsg); objErr == nil {
			lc.logger.Debugf("실시간 데이터 없음 (리소스: %s, 코드: %s): %s",
				desc.Name, errMsg.Code, errMsg.Message)
			return nil, nil
		}
		return nil, &MalformedEnvelopeError{Resource: desc.Name, Err: err}
	}

	rows := make([]models.NormalizedRow, 0, len(rawRows))
	for _, rawRow := range rawRows {
		rows = append(rows, models.NormalizeRow(rawRow, desc.StationField))
	}

	return rows, nil
}

// buildAPIURL 실시간용 URL 생성
// 형식: {base}/{key}/json/{리소스}/0/20/{역명 또는 호선}
func (lc *LiveClient) buildAPIURL(desc models.ServiceDescriptor, key string) string {
	return fmt.Sprintf("%s/%s/json/%s/0/20/%s",
		lc.config.LiveBaseURL,
		lc.config.LiveServiceKey,
		desc.Name,
		url.PathEscape(key),
	)
}
