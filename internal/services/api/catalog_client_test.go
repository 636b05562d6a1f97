package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		CatalogServiceKey: "testkey",
		CatalogBaseURL:    baseURL,
		LiveServiceKey:    "livekey",
		LiveBaseURL:       baseURL,
		HTTPTimeout:       5 * time.Second,
	}
}

func testDescriptor(pageSize, maxRows int) models.ServiceDescriptor {
	return models.ServiceDescriptor{
		Name:         "SeoulMetroFaciInfo",
		Family:       models.FamilyCatalog,
		StationField: "STN_NM",
		PageSize:     pageSize,
		MaxRows:      maxRows,
		TTL:          time.Hour,
	}
}

// catalogPage 페이지 범위에 해당하는 응답 본문 생성
func catalogPage(resource string, total, start, end int) string {
	var rows []map[string]interface{}
	for i := start; i <= end && i <= total; i++ {
		rows = append(rows, map[string]interface{}{
			"STN_NM":   "강남",
			"ELVTR_NO": strconv.Itoa(i),
		})
	}

	payload := map[string]interface{}{
		resource: map[string]interface{}{
			"list_total_count": total,
			"RESULT":           map[string]string{"CODE": "INFO-000", "MESSAGE": "정상 처리되었습니다"},
			"row":              rows,
		},
	}

	body, _ := json.Marshal(payload)
	return string(body)
}

func TestCatalogFetchPagination(t *testing.T) {
	const total = 5
	requestCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++

		// 경로 형식: /{key}/json/{리소스}/{start}/{end}/
		segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(segments) < 5 {
			t.Errorf("잘못된 경로 형식: %s", r.URL.Path)
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}
		if segments[0] != "testkey" {
			t.Errorf("인증 키 세그먼트가 다릅니다: %s", segments[0])
		}
		if segments[1] != "json" {
			t.Errorf("형식 세그먼트가 다릅니다: %s", segments[1])
		}

		start, _ := strconv.Atoi(segments[3])
		end, _ := strconv.Atoi(segments[4])
		fmt.Fprint(w, catalogPage(segments[2], total, start, end))
	}))
	defer server.Close()

	client := NewCatalogClient(testConfig(server.URL), utils.NewLogger())
	rows, err := client.Fetch(context.Background(), testDescriptor(2, 10), nil)
	if err != nil {
		t.Fatalf("Fetch 실패: %v", err)
	}

	if len(rows) != total {
		t.Errorf("행 개수가 다릅니다: got %d, want %d", len(rows), total)
	}
	// 페이지 크기 2로 5건: 2 + 2 + 1 = 3회 호출 후 종료
	if requestCount != 3 {
		t.Errorf("호출 횟수가 다릅니다: got %d, want 3", requestCount)
	}
	for _, row := range rows {
		if row.Station() != "강남" {
			t.Errorf("station 키가 채워지지 않았습니다: %v", row)
		}
	}
}

func TestCatalogFetchEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 데이터 없음은 최상위 RESULT 봉투로 온다
		fmt.Fprint(w, `{"RESULT": {"CODE": "INFO-200", "MESSAGE": "해당하는 데이터가 없습니다"}}`)
	}))
	defer server.Close()

	client := NewCatalogClient(testConfig(server.URL), utils.NewLogger())
	rows, err := client.Fetch(context.Background(), testDescriptor(1000, 1000), nil)
	if err != nil {
		t.Fatalf("INFO-200은 오류가 아니어야 합니다: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("빈 데이터는 0행이어야 합니다: %d", len(rows))
	}
}

func TestCatalogFetchRejectedCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"RESULT": {"CODE": "INFO-100", "MESSAGE": "인증키가 유효하지 않습니다"}}`)
	}))
	defer server.Close()

	client := NewCatalogClient(testConfig(server.URL), utils.NewLogger())
	_, err := client.Fetch(context.Background(), testDescriptor(1000, 1000), nil)

	var rejected *UpstreamRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("UpstreamRejectedError가 아닙니다: %v", err)
	}
	if rejected.Code != "INFO-100" {
		t.Errorf("오류 코드가 다릅니다: %s", rejected.Code)
	}
}

func TestCatalogFetchPayloadLevelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"SeoulMetroFaciInfo": {"RESULT": {"CODE": "ERROR-300", "MESSAGE": "필수 값이 누락되어 있습니다"}}}`)
	}))
	defer server.Close()

	client := NewCatalogClient(testConfig(server.URL), utils.NewLogger())
	_, err := client.Fetch(context.Background(), testDescriptor(1000, 1000), nil)

	var rejected *UpstreamRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("UpstreamRejectedError가 아닙니다: %v", err)
	}
}

func TestCatalogFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>점검 중입니다</html>`)
	}))
	defer server.Close()

	client := NewCatalogClient(testConfig(server.URL), utils.NewLogger())
	_, err := client.Fetch(context.Background(), testDescriptor(1000, 1000), nil)

	var malformed *MalformedEnvelopeError
	if !errors.As(err, &malformed) {
		t.Fatalf("MalformedEnvelopeError가 아닙니다: %v", err)
	}
}

func TestCatalogFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewCatalogClient(testConfig(server.URL), utils.NewLogger())
	_, err := client.Fetch(context.Background(), testDescriptor(1000, 1000), nil)

	var unavailable *UpstreamUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("UpstreamUnavailableError가 아닙니다: %v", err)
	}
}

func TestCatalogFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewCatalogClient(testConfig(serverURL), utils.NewLogger())
	_, err := client.Fetch(context.Background(), testDescriptor(1000, 1000), nil)

	var unavailable *UpstreamUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("UpstreamUnavailableError가 아닙니다: %v", err)
	}
}
