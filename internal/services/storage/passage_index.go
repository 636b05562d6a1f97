package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// PassageIndex 안내 지식 문단 검색 인덱스 (Elasticsearch)
type PassageIndex struct {
	client    *elasticsearch.Client
	indexName string
	logger    *utils.Logger
}

// NewPassageIndex 새로운 문단 인덱스 생성
func NewPassageIndex(cfg *config.Config, logger *utils.Logger) (*PassageIndex, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.ElasticsearchURL},
	}

	// 인증 정보가 있는 경우 추가
	if cfg.ElasticsearchUsername != "" {
		esConfig.Username = cfg.ElasticsearchUsername
		esConfig.Password = cfg.ElasticsearchPassword
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, fmt.Errorf("Elasticsearch 클라이언트 생성 실패: %v", err)
	}

	return &PassageIndex{
		client:    client,
		indexName: cfg.PassageIndexName,
		logger:    logger,
	}, nil
}

// TestConnection Elasticsearch 연결 테스트
func (pi *PassageIndex) TestConnection() error {
	info, err := pi.client.Info()
	if err != nil {
		return fmt.Errorf("연결 실패: %v", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return fmt.Errorf("연결 오류: %s", info.String())
	}

	return nil
}

// EnsureIndex 인덱스가 없으면 매핑과 함께 생성
func (pi *PassageIndex) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{
		Index: []string{pi.indexName},
	}.Do(ctx, pi.client)
	if err != nil {
		return fmt.Errorf("인덱스 확인 실패: %v", err)
	}
	defer exists.Body.Close()

	if exists.StatusCode == 200 {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"checkpoint_type": { "type": "keyword" },
				"station_name":    { "type": "keyword" },
				"text":            { "type": "text" }
			}
		}
	}`

	res, err := esapi.IndicesCreateRequest{
		Index: pi.indexName,
		Body:  strings.NewReader(mapping),
	}.Do(ctx, pi.client)
	if err != nil {
		return fmt.Errorf("인덱스 생성 실패: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("인덱스 생성 오류 [%s]: %s", res.Status(), string(body))
	}

	pi.logger.Infof("문단 인덱스 생성 완료 - 인덱스: %s", pi.indexName)
	return nil
}

// BulkIndexPassages 벌크 인서트로 안내 문단을 인덱스에 적재
func (pi *PassageIndex) BulkIndexPassages(ctx context.Context, passages []models.GuidancePassage) error {
	if len(passages) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, passage := range passages {
		// 인덱스 메타데이터 (문단 ID를 문서 ID로 사용해 재적재 시 중복 방지)
		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": pi.indexName,
				"_id":    passage.ID,
			},
		}

		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("메타데이터 마샬링 실패: %v", err)
		}

		docBytes, err := json.Marshal(passage)
		if err != nil {
			return fmt.Errorf("문단 마샬링 실패: %v", err)
		}

		// 벌크 요청 형식: 각 라인은 \n으로 구분
		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Index: pi.indexName,
		Body:  strings.NewReader(buf.String()),
	}

	res, err := req.Do(ctx, pi.client)
	if err != nil {
		return fmt.Errorf("벌크 요청 실행 실패: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("벌크 요청 오류 [%s]: %s", res.Status(), string(body))
	}

	// 응답 파싱하여 에러 확인
	var bulkResponse models.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("벌크 응답 파싱 실패: %v", err)
	}

	errorCount := 0
	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			errorCount++
			pi.logger.Errorf("문단 인덱싱 실패 - ID: %s, 유형: %s, 사유: %s",
				item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("벌크 인서트 중 %d개 문단 실패", errorCount)
	}

	pi.logger.Infof("문단 적재 완료 - 인덱스: %s, 건수: %d건", pi.indexName, len(passages))
	return nil
}

// searchResponse 검색 응답 구조체
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64                `json:"_score"`
			Source models.GuidancePassage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search 질의 텍스트로 문단 검색
// checkpointType이 비어있지 않으면 해당 유형으로 필터링하고
// stationName 일치 문단에 가산점을 준다.
func (pi *PassageIndex) Search(ctx context.Context, query, checkpointType, stationName string, topK int) ([]models.GuidancePassage, error) {
	must := []map[string]interface{}{
		{"match": map[string]interface{}{"text": query}},
	}

	var filter []map[string]interface{}
	if checkpointType != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"checkpoint_type": checkpointType},
		})
	}

	var should []map[string]interface{}
	if stationName != "" {
		should = append(should, map[string]interface{}{
			"term": map[string]interface{}{"station_name": stationName},
		})
	}

	body := map[string]interface{}{
		"size": topK,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
				"should": should,
			},
		},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("검색 요청 마샬링 실패: %v", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{pi.indexName},
		Body:  bytes.NewReader(bodyBytes),
	}.Do(ctx, pi.client)
	if err != nil {
		return nil, fmt.Errorf("검색 요청 실행 실패: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		respBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("검색 요청 오류 [%s]: %s", res.Status(), string(respBody))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("검색 응답 파싱 실패: %v", err)
	}

	passages := make([]models.GuidancePassage, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		passage := hit.Source
		passage.Score = hit.Score
		passages = append(passages, passage)
	}

	return passages, nil
}
