package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

func liveDescriptor() models.ServiceDescriptor {
	return models.ServiceDescriptor{
		Name:         "realtimeStationArrival",
		Family:       models.FamilyLive,
		ListKey:      "realtimeArrivalList",
		StationField: "statnNm",
		TTL:          time.Minute,
	}
}

func TestLiveFetchArrivalList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"realtimeArrivalList": [
				{"statnNm": "강남", "subwayNm": "2호선", "updnLine": "상행", "arvlMsg2": "전역 출발", "barvlDt": "120"},
				{"statnNm": "강남", "subwayNm": "2호선", "updnLine": "하행", "arvlMsg2": "3분 후 도착", "barvlDt": "180"}
			]
		}`)
	}))
	defer server.Close()

	client := NewLiveClient(testConfig(server.URL), utils.NewLogger())
	rows, err := client.Fetch(context.Background(), liveDescriptor(), map[string]string{"station": "강남"})
	if err != nil {
		t.Fatalf("Fetch 실패: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("행 개수가 다릅니다: %d", len(rows))
	}
	if rows[0].Station() != "강남" {
		t.Errorf("station 키가 채워지지 않았습니다: %q", rows[0].Station())
	}
	if rows[0].Get("updnLine") != "상행" {
		t.Errorf("updnLine 값이 다릅니다: %q", rows[0].Get("updnLine"))
	}
}

func TestLiveFetchStripsStationSuffix(t *testing.T) {
	var requestPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestPath = r.URL.Path
		fmt.Fprint(w, `{"realtimeArrivalList": []}`)
	}))
	defer server.Close()

	client := NewLiveClient(testConfig(server.URL), utils.NewLogger())
	if _, err := client.Fetch(context.Background(), liveDescriptor(), map[string]string{"station": "강남역"}); err != nil {
		t.Fatalf("Fetch 실패: %v", err)
	}

	// 접미사 "역"을 제거한 역명으로 요청해야 한다
	if !strings.HasSuffix(requestPath, "/강남") {
		t.Errorf("역명 접미사가 제거되지 않았습니다: %s", requestPath)
	}
}

func TestLiveFetchErrorObjectInsteadOfList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 데이터 없음 시 목록 자리에 오류 객체가 온다
		fmt.Fprint(w, `{
			"realtimeArrivalList": {"status": 500, "code": "INFO-200", "message": "해당하는 데이터가 없습니다"}
		}`)
	}))
	defer server.Close()

	client := NewLiveClient(testConfig(server.URL), utils.NewLogger())
	rows, err := client.Fetch(context.Background(), liveDescriptor(), map[string]string{"station": "강남"})
	if err != nil {
		t.Fatalf("오류 객체는 0행으로 처리되어야 합니다: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("행이 없어야 합니다: %d", len(rows))
	}
}

func TestLiveFetchMissingListKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errorMessage": {"status": 500, "code": "INFO-200", "message": "해당하는 데이터가 없습니다"}}`)
	}))
	defer server.Close()

	client := NewLiveClient(testConfig(server.URL), utils.NewLogger())
	rows, err := client.Fetch(context.Background(), liveDescriptor(), map[string]string{"station": "강남"})
	if err != nil {
		t.Fatalf("목록 키 부재는 0행으로 처리되어야 합니다: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("행이 없어야 합니다: %d", len(rows))
	}
}

func TestLiveFetchRequiresStationParam(t *testing.T) {
	client := NewLiveClient(testConfig("http://localhost:1"), utils.NewLogger())
	if _, err := client.Fetch(context.Background(), liveDescriptor(), nil); err == nil {
		t.Error("역명 파라미터 없는 호출은 오류여야 합니다")
	}
}
