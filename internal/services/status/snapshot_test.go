package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/services/cache"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// fakeUpstream 리소스 이름별 고정 행을 반환하는 업스트림 스텁
type fakeUpstream struct {
	family models.APIFamily
	rows   map[string][]models.NormalizedRow
	err    error
}

func (f *fakeUpstream) Family() models.APIFamily {
	return f.family
}

func (f *fakeUpstream) Fetch(ctx context.Context, desc models.ServiceDescriptor, params map[string]string) ([]models.NormalizedRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[desc.Name], nil
}

func newTestService(catalog, live *fakeUpstream) *StatusService {
	logger := utils.NewLogger()
	cfg := &config.Config{HTTPTimeout: 5 * time.Second}
	return NewStatusService(cfg, logger, cache.NewResponseCache(16, logger), catalog, live)
}

func TestElevatorReportExactStationMatch(t *testing.T) {
	catalog := &fakeUpstream{
		family: models.FamilyCatalog,
		rows: map[string][]models.NormalizedRow{
			models.DescElevatorStatus.Name: {
				{models.StationKey: "잠실", "ELVTR_SE": "EV", "INSTL_PSTN": "3번 출구", "USE_YN": "사용가능"},
				{models.StationKey: "잠실나루", "ELVTR_SE": "EV", "INSTL_PSTN": "1번 출구", "USE_YN": "보수중"},
				{models.StationKey: "잠실새내", "ELVTR_SE": "EV", "INSTL_PSTN": "2번 출구", "USE_YN": "사용가능"},
			},
		},
	}

	svc := newTestService(catalog, &fakeUpstream{family: models.FamilyLive})

	report, err := svc.ElevatorReport(context.Background(), "잠실역")
	if err != nil {
		t.Fatalf("ElevatorReport 실패: %v", err)
	}

	// 역명 부분 일치는 배제되어야 한다
	if len(report.Units) != 1 {
		t.Fatalf("잠실나루, 잠실새내가 포함되었습니다: %d대", len(report.Units))
	}
	if !report.AllWorking {
		t.Error("잠실역 엘리베이터는 전체 정상이어야 합니다")
	}
}

func TestElevatorReportStatusMapping(t *testing.T) {
	catalog := &fakeUpstream{
		family: models.FamilyCatalog,
		rows: map[string][]models.NormalizedRow{
			models.DescElevatorStatus.Name: {
				{models.StationKey: "강남", "ELVTR_SE": "EV", "INSTL_PSTN": "3번 출구 엘리베이터", "USE_YN": "사용가능"},
				{models.StationKey: "강남", "ELVTR_SE": "EV", "INSTL_PSTN": "5번 출구 엘리베이터", "USE_YN": "보수중"},
				{models.StationKey: "강남", "ELVTR_SE": "ES", "INSTL_PSTN": "7번 출구 에스컬레이터", "USE_YN": "보수중"},
			},
		},
	}

	svc := newTestService(catalog, &fakeUpstream{family: models.FamilyLive})

	report, err := svc.ElevatorReport(context.Background(), "강남")
	if err != nil {
		t.Fatalf("ElevatorReport 실패: %v", err)
	}

	// 에스컬레이터는 제외
	if len(report.Units) != 2 {
		t.Fatalf("엘리베이터 외 설비가 포함되었습니다: %d대", len(report.Units))
	}
	if report.AllWorking {
		t.Error("미가동 설비가 있으면 AllWorking은 false여야 합니다")
	}
	if report.BrokenAtExit("3") {
		t.Error("3번 출구 엘리베이터는 가동 중이어야 합니다")
	}
	if !report.BrokenAtExit("5") {
		t.Error("5번 출구 엘리베이터는 미가동이어야 합니다")
	}
	if !report.WorkingAtExit("3") {
		t.Error("3번 출구에 가동 중인 엘리베이터가 있어야 합니다")
	}
}

func TestExitClosureReport(t *testing.T) {
	catalog := &fakeUpstream{
		family: models.FamilyCatalog,
		rows: map[string][]models.NormalizedRow{
			models.DescExitClosure.Name: {
				{models.StationKey: "강남", "EXIT_NO": "3", "CLSE_YN": "Y", "CLSE_RSN": "에스컬레이터 공사"},
				{models.StationKey: "강남", "EXIT_NO": "5", "CLSE_YN": "N"},
			},
		},
	}

	svc := newTestService(catalog, &fakeUpstream{family: models.FamilyLive})

	report, err := svc.ExitClosureReport(context.Background(), "강남", "3")
	if err != nil {
		t.Fatalf("ExitClosureReport 실패: %v", err)
	}
	if !report.Closed {
		t.Error("3번 출구는 통제 중이어야 합니다")
	}
	if report.Reason != "에스컬레이터 공사" {
		t.Errorf("통제 사유가 다릅니다: %q", report.Reason)
	}

	open, err := svc.ExitClosureReport(context.Background(), "강남", "5")
	if err != nil {
		t.Fatalf("ExitClosureReport 실패: %v", err)
	}
	if open.Closed {
		t.Error("5번 출구는 통제 중이 아니어야 합니다")
	}
}

func TestArrivalReport(t *testing.T) {
	live := &fakeUpstream{
		family: models.FamilyLive,
		rows: map[string][]models.NormalizedRow{
			models.DescRealtimeArrival.Name: {
				{models.StationKey: "강남", "subwayNm": "2호선", "updnLine": "하행",
					"bstatnNm": "성수", "arvlMsg2": "3분 후 도착", "barvlDt": "180"},
			},
		},
	}

	svc := newTestService(&fakeUpstream{family: models.FamilyCatalog}, live)

	report, err := svc.ArrivalReport(context.Background(), "강남역")
	if err != nil {
		t.Fatalf("ArrivalReport 실패: %v", err)
	}
	if len(report.Arrivals) != 1 {
		t.Fatalf("도착 정보 개수가 다릅니다: %d", len(report.Arrivals))
	}

	arrival := report.Arrivals[0]
	if arrival.Line != "2호선" || arrival.Direction != "하행" || arrival.Destination != "성수" {
		t.Errorf("도착 정보 매핑이 다릅니다: %+v", arrival)
	}
	if arrival.Seconds != 180 {
		t.Errorf("도착 잔여 시간이 다릅니다: %d초", arrival.Seconds)
	}
}

func TestElevatorReportDetailFallback(t *testing.T) {
	// 가동 현황 카탈로그에 없는 역은 상세 설비 카탈로그로 보강된다
	catalog := &fakeUpstream{
		family: models.FamilyCatalog,
		rows: map[string][]models.NormalizedRow{
			models.DescElevatorStatus.Name: {
				{models.StationKey: "역삼", "ELVTR_SE": "EV", "INSTL_PSTN": "2번 출구", "USE_YN": "사용가능"},
			},
			models.DescStationElevator.Name: {
				{models.StationKey: "강남", "INSTL_PSTN": "3번 출구 방면 대합실"},
				{models.StationKey: "역삼", "INSTL_PSTN": "2번 출구"},
			},
		},
	}

	svc := newTestService(catalog, &fakeUpstream{family: models.FamilyLive})

	report, err := svc.ElevatorReport(context.Background(), "강남")
	if err != nil {
		t.Fatalf("ElevatorReport 실패: %v", err)
	}
	if len(report.Units) != 1 {
		t.Fatalf("상세 설비 보강 결과가 다릅니다: %d대", len(report.Units))
	}

	unit := report.Units[0]
	if unit.Location != "3번 출구 방면 대합실" {
		t.Errorf("설치 위치가 다릅니다: %q", unit.Location)
	}
	if !unit.Working || !report.AllWorking {
		t.Error("상태 정보가 없는 설비는 가동 중으로 간주되어야 합니다")
	}
	if len(unit.ExitNumbers) != 1 || unit.ExitNumbers[0] != "3" {
		t.Errorf("출구 번호 추출이 다릅니다: %v", unit.ExitNumbers)
	}
}

func TestLiftReport(t *testing.T) {
	catalog := &fakeUpstream{
		family: models.FamilyCatalog,
		rows: map[string][]models.NormalizedRow{
			models.DescWheelchairLift.Name: {
				{models.StationKey: "강남", "INSTL_PSTN": "3번 출구 계단", "OPR_SEC": "지상 1층 ~ 대합실"},
				{models.StationKey: "역삼", "INSTL_PSTN": "1번 출구 계단"},
			},
		},
	}

	svc := newTestService(catalog, &fakeUpstream{family: models.FamilyLive})

	report, err := svc.LiftReport(context.Background(), "강남역")
	if err != nil {
		t.Fatalf("LiftReport 실패: %v", err)
	}
	if len(report.Lifts) != 1 {
		t.Fatalf("다른 역의 리프트가 포함되었습니다: %d대", len(report.Lifts))
	}
	if report.Lifts[0].Location != "3번 출구 계단" {
		t.Errorf("설치 위치가 다릅니다: %q", report.Lifts[0].Location)
	}
	if report.Lifts[0].Section != "지상 1층 ~ 대합실" {
		t.Errorf("운행 구간이 다릅니다: %q", report.Lifts[0].Section)
	}
}

func TestSafePlatformReport(t *testing.T) {
	catalog := &fakeUpstream{
		family: models.FamilyCatalog,
		rows: map[string][]models.NormalizedRow{
			models.DescSafePlatform.Name: {
				{models.StationKey: "강남", "INSTL_PSTN": "하행 3-2"},
				{models.StationKey: "강남", "INSTL_PSTN": "상행 7-4"},
			},
		},
	}

	svc := newTestService(catalog, &fakeUpstream{family: models.FamilyLive})

	report, err := svc.SafePlatformReport(context.Background(), "강남")
	if err != nil {
		t.Fatalf("SafePlatformReport 실패: %v", err)
	}
	if !report.Installed {
		t.Error("강남역은 안전발판 설치역이어야 합니다")
	}
	if len(report.Sections) != 2 {
		t.Errorf("설치 위치 개수가 다릅니다: %d", len(report.Sections))
	}

	none, err := svc.SafePlatformReport(context.Background(), "역삼")
	if err != nil {
		t.Fatalf("SafePlatformReport 실패: %v", err)
	}
	if none.Installed {
		t.Error("설치 데이터가 없는 역은 미설치여야 합니다")
	}
}

func TestPositionReport(t *testing.T) {
	live := &fakeUpstream{
		family: models.FamilyLive,
		rows: map[string][]models.NormalizedRow{
			models.DescRealtimePosition.Name: {
				{models.StationKey: "서초", "trainNo": "2345", "subwayNm": "2호선",
					"updnLine": "하행", "trainSttus": "진입"},
			},
		},
	}

	svc := newTestService(&fakeUpstream{family: models.FamilyCatalog}, live)

	report, err := svc.PositionReport(context.Background(), "2호선")
	if err != nil {
		t.Fatalf("PositionReport 실패: %v", err)
	}
	if len(report.Positions) != 1 {
		t.Fatalf("열차 위치 개수가 다릅니다: %d", len(report.Positions))
	}

	pos := report.Positions[0]
	if pos.TrainNo != "2345" || pos.StationName != "서초" || pos.Direction != "하행" || pos.Status != "진입" {
		t.Errorf("열차 위치 매핑이 다릅니다: %+v", pos)
	}

	// 호선이 없으면 조회 없이 빈 결과
	empty, err := svc.PositionReport(context.Background(), "")
	if err != nil {
		t.Fatalf("PositionReport 실패: %v", err)
	}
	if len(empty.Positions) != 0 {
		t.Errorf("호선 미지정 조회는 비어 있어야 합니다: %d", len(empty.Positions))
	}
}

func TestSnapshotAbsorbsUpstreamFailures(t *testing.T) {
	failing := &fakeUpstream{family: models.FamilyCatalog, err: errors.New("업스트림 연결 실패")}
	failingLive := &fakeUpstream{family: models.FamilyLive, err: errors.New("업스트림 연결 실패")}

	svc := newTestService(failing, failingLive)

	snapshot := svc.Snapshot(context.Background(), "강남", "3", "2호선")

	if snapshot == nil {
		t.Fatal("업스트림 실패 시에도 스냅샷은 반환되어야 합니다")
	}
	if len(snapshot.Warnings) == 0 {
		t.Error("업스트림 실패가 경고로 기록되지 않았습니다")
	}
	// 확인 불가 시 엘리베이터는 정상 가정으로 진행
	if !snapshot.Elevators.AllWorking {
		t.Error("정보 없는 엘리베이터 현황은 정상 가정이어야 합니다")
	}
	if snapshot.ExitClosure.Closed {
		t.Error("정보 없는 출구 통제는 개방 가정이어야 합니다")
	}
}

func TestSnapshotIncludesFacilitySections(t *testing.T) {
	catalog := &fakeUpstream{
		family: models.FamilyCatalog,
		rows: map[string][]models.NormalizedRow{
			models.DescWheelchairLift.Name: {
				{models.StationKey: "강남", "INSTL_PSTN": "3번 출구 계단", "OPR_SEC": "지상 1층 ~ 대합실"},
			},
			models.DescSafePlatform.Name: {
				{models.StationKey: "강남", "INSTL_PSTN": "하행 3-2"},
			},
		},
	}
	live := &fakeUpstream{
		family: models.FamilyLive,
		rows: map[string][]models.NormalizedRow{
			models.DescRealtimePosition.Name: {
				{models.StationKey: "서초", "trainNo": "2345", "updnLine": "하행", "trainSttus": "진입"},
			},
		},
	}

	svc := newTestService(catalog, live)

	snapshot := svc.Snapshot(context.Background(), "강남", "3", "2호선")

	if len(snapshot.Lifts.Lifts) != 1 {
		t.Errorf("리프트 현황이 스냅샷에 포함되지 않았습니다: %d대", len(snapshot.Lifts.Lifts))
	}
	if !snapshot.SafePlatform.Installed {
		t.Error("안전발판 현황이 스냅샷에 포함되지 않았습니다")
	}
	if len(snapshot.Positions.Positions) != 1 {
		t.Errorf("열차 위치가 스냅샷에 포함되지 않았습니다: %d", len(snapshot.Positions.Positions))
	}
}

func TestSnapshotCachesUpstreamCalls(t *testing.T) {
	callCount := 0
	catalog := &countingUpstream{
		inner: &fakeUpstream{
			family: models.FamilyCatalog,
			rows: map[string][]models.NormalizedRow{
				models.DescElevatorStatus.Name: {
					{models.StationKey: "강남", "ELVTR_SE": "EV", "INSTL_PSTN": "3번 출구", "USE_YN": "사용가능"},
				},
			},
		},
		count: &callCount,
	}

	svc := newTestService(&fakeUpstream{family: models.FamilyCatalog}, &fakeUpstream{family: models.FamilyLive})
	svc.catalog = catalog

	for i := 0; i < 3; i++ {
		if _, err := svc.ElevatorReport(context.Background(), "강남"); err != nil {
			t.Fatalf("ElevatorReport 실패: %v", err)
		}
	}

	if callCount != 1 {
		t.Errorf("TTL 내 호출이 캐시되지 않았습니다: %d회", callCount)
	}
}

// countingUpstream 호출 횟수를 세는 업스트림 래퍼
type countingUpstream struct {
	inner *fakeUpstream
	count *int
}

func (c *countingUpstream) Family() models.APIFamily {
	return c.inner.Family()
}

func (c *countingUpstream) Fetch(ctx context.Context, desc models.ServiceDescriptor, params map[string]string) ([]models.NormalizedRow, error) {
	*c.count++
	return c.inner.Fetch(ctx, desc, params)
}
