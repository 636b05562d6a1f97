package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// Clock 현재 시간 제공 함수 (테스트 주입용)
type Clock func() time.Time

// FetchFunc 캐시 미스 시 실제 조회를 수행하는 함수
type FetchFunc func() ([]models.NormalizedRow, error)

// entry 캐시 항목
// 만료 후에도 다음 조회 실패 시 폴백용으로 유지된다.
type entry struct {
	key       string
	rows      []models.NormalizedRow
	fetchedAt time.Time
	ttl       time.Duration
	element   *list.Element
}

// inflight 진행 중인 조회 (동일 키 중복 조회 방지)
type inflight struct {
	done chan struct{}
	rows []models.NormalizedRow
	err  error
}

// ResponseCache 업스트림 응답 캐시
// TTL 기반 지연 만료, 키 단위 단일 조회, 실패 시 만료 데이터 폴백,
// LRU 상한을 제공한다.
type ResponseCache struct {
	logger     *utils.Logger
	clock      Clock
	maxEntries int

	mu       sync.Mutex
	entries  map[string]*entry
	lruList  *list.List // 앞쪽이 최근 사용
	inflight map[string]*inflight
}

// NewResponseCache 새로운 응답 캐시 생성
func NewResponseCache(maxEntries int, logger *utils.Logger) *ResponseCache {
	return NewResponseCacheWithClock(maxEntries, logger, time.Now)
}

// NewResponseCacheWithClock 시계 주입 버전 (테스트용)
func NewResponseCacheWithClock(maxEntries int, logger *utils.Logger, clock Clock) *ResponseCache {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &ResponseCache{
		logger:     logger,
		clock:      clock,
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
		lruList:    list.New(),
		inflight:   make(map[string]*inflight),
	}
}

// GetOrFetch 키에 해당하는 행을 캐시에서 반환하거나 fetch로 조회
// 반환값 stale은 조회 실패로 만료된 데이터를 반환했는지 여부.
// 과거에 성공한 적이 없는 키의 조회 실패만 오류로 반환된다.
func (rc *ResponseCache) GetOrFetch(key string, ttl time.Duration, fetch FetchFunc) ([]models.NormalizedRow, bool, error) {
	rc.mu.Lock()

	// 유효한 캐시 항목 확인 (지연 만료)
	if ent, ok := rc.entries[key]; ok {
		if rc.clock().Sub(ent.fetchedAt) < ent.ttl {
			rc.lruList.MoveToFront(ent.element)
			rows := models.CloneRows(ent.rows)
			rc.mu.Unlock()
			return rows, false, nil
		}
	}

	// 동일 키 조회가 진행 중이면 완료를 기다림
	if fl, ok := rc.inflight[key]; ok {
		rc.mu.Unlock()
		<-fl.done

		if fl.err == nil {
			return models.CloneRows(fl.rows), false, nil
		}
		return rc.fallbackStale(key, fl.err)
	}

	// 조회 시작
	fl := &inflight{done: make(chan struct{})}
	rc.inflight[key] = fl
	rc.mu.Unlock()

	rows, err := fetch()

	rc.mu.Lock()
	fl.rows = rows
	fl.err = err
	delete(rc.inflight, key)

	if err == nil {
		// 호출자가 반환된 행을 수정해도 캐시 항목이 오염되지 않도록 복사본 저장
		rc.store(key, ttl, models.CloneRows(rows))
		rc.mu.Unlock()
		close(fl.done)
		return rows, false, nil
	}

	rc.mu.Unlock()
	close(fl.done)

	return rc.fallbackStale(key, err)
}

// fallbackStale 조회 실패 시 만료된 항목으로 폴백
func (rc *ResponseCache) fallbackStale(key string, fetchErr error) ([]models.NormalizedRow, bool, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if ent, ok := rc.entries[key]; ok {
		rc.lruList.MoveToFront(ent.element)
		rc.logger.Warnf("업스트림 조회 실패, 만료된 캐시 사용 - 키: %s, 오류: %v", key, fetchErr)
		return models.CloneRows(ent.rows), true, nil
	}

	return nil, false, fetchErr
}

// store 캐시 항목 저장 및 LRU 상한 유지 (호출자가 락 보유)
func (rc *ResponseCache) store(key string, ttl time.Duration, rows []models.NormalizedRow) {
	if ent, ok := rc.entries[key]; ok {
		ent.rows = rows
		ent.fetchedAt = rc.clock()
		ent.ttl = ttl
		rc.lruList.MoveToFront(ent.element)
		return
	}

	ent := &entry{
		key:       key,
		rows:      rows,
		fetchedAt: rc.clock(),
		ttl:       ttl,
	}
	ent.element = rc.lruList.PushFront(ent)
	rc.entries[key] = ent

	// LRU 상한 초과 시 가장 오래 사용되지 않은 항목 제거
	for len(rc.entries) > rc.maxEntries {
		oldest := rc.lruList.Back()
		if oldest == nil {
			break
		}
		victim := oldest.Value.(*entry)
		rc.lruList.Remove(oldest)
		delete(rc.entries, victim.key)
		rc.logger.Debugf("캐시 LRU 제거 - 키: %s", victim.key)
	}
}

// Len 현재 캐시 항목 수 반환
func (rc *ResponseCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// Invalidate 특정 키의 캐시 항목 제거
func (rc *ResponseCache) Invalidate(key string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if ent, ok := rc.entries[key]; ok {
		rc.lruList.Remove(ent.element)
		delete(rc.entries, key)
	}
}
