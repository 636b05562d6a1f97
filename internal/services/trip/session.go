// Package trip 경로 계획과 안내 세션 상태를 관리한다.
package trip

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// ErrSessionNotFound 세션 조회 실패
var ErrSessionNotFound = errors.New("세션을 찾을 수 없습니다")

// ErrSessionCompleted 이미 종료된 세션에 대한 진행 요청
var ErrSessionCompleted = errors.New("이미 종료된 세션입니다")

// PositionResult 위치 보고 처리 결과
type PositionResult struct {
	Reached        bool               `json:"reached"`
	Checkpoint     *models.Checkpoint `json:"checkpoint,omitempty"` // 도달한 체크포인트
	NextCheckpoint *models.Checkpoint `json:"next_checkpoint,omitempty"`
	DistanceMeters float64            `json:"distance_meters"`
	Completed      bool               `json:"completed"`
}

// SessionStore 안내 세션 저장소
// 세션 상태 변경은 전부 저장소 락 안에서만 일어난다.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.TripSession
	logger   *utils.Logger
}

// NewSessionStore 새로운 세션 저장소 생성
func NewSessionStore(logger *utils.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.TripSession),
		logger:   logger,
	}
}

// Create 새로운 안내 세션 생성
func (st *SessionStore) Create(startStation, endStation, line, direction string, tags models.MobilityTags, checkpoints []models.Checkpoint) *models.TripSession {
	now := time.Now()
	session := &models.TripSession{
		ID:           uuid.NewString(),
		StartStation: startStation,
		EndStation:   endStation,
		Line:         line,
		Direction:    direction,
		Tags:         tags,
		Checkpoints:  checkpoints,
		CurrentIndex: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	st.logger.Infof("안내 세션 생성 - ID: %s, 구간: %s → %s, 체크포인트: %d개",
		session.ID, startStation, endStation, len(checkpoints))

	return session
}

// Get 세션 조회 (복사본 반환)
func (st *SessionStore) Get(sessionID string) (*models.TripSession, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, exists := st.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	copied := *session
	copied.Checkpoints = append([]models.Checkpoint(nil), session.Checkpoints...)
	return &copied, nil
}

// ReportPosition 위치 보고 처리
// 다음 체크포인트의 지오펜스 반경 이내면 해당 체크포인트로 진행한다.
// 좌표 없는 체크포인트는 위치 보고로 진행되지 않는다.
func (st *SessionStore) ReportPosition(sessionID string, lat, lon float64) (*PositionResult, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, exists := st.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.Completed {
		return nil, ErrSessionCompleted
	}

	next := session.Next()
	if next == nil {
		// 마지막 체크포인트에 이미 도달한 상태
		session.Completed = true
		session.UpdatedAt = time.Now()
		return &PositionResult{Completed: true}, nil
	}

	reached, distance := next.Reached(lat, lon)
	if !reached {
		nextCopy := *next
		return &PositionResult{
			NextCheckpoint: &nextCopy,
			DistanceMeters: distance,
		}, nil
	}

	session.CurrentIndex++
	session.UpdatedAt = time.Now()

	reachedCopy := session.Checkpoints[session.CurrentIndex]
	result := &PositionResult{
		Reached:        true,
		Checkpoint:     &reachedCopy,
		DistanceMeters: distance,
		Completed:      session.CurrentIndex == len(session.Checkpoints)-1,
	}
	if result.Completed {
		session.Completed = true
	} else {
		nextCopy := session.Checkpoints[session.CurrentIndex+1]
		result.NextCheckpoint = &nextCopy
	}

	st.logger.Infof("체크포인트 도달 - 세션: %s, 체크포인트: %d (%s), 거리: %.1fm",
		sessionID, reachedCopy.ID, reachedCopy.Type, distance)

	return result, nil
}

// Advance 명시적 진행 신호 처리
// 좌표 없는 체크포인트(승강장, 탑승 등)는 이 신호로만 통과된다.
func (st *SessionStore) Advance(sessionID string) (*PositionResult, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, exists := st.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.Completed {
		return nil, ErrSessionCompleted
	}

	next := session.Next()
	if next == nil {
		session.Completed = true
		session.UpdatedAt = time.Now()
		return &PositionResult{Completed: true}, nil
	}

	session.CurrentIndex++
	session.UpdatedAt = time.Now()

	reachedCopy := session.Checkpoints[session.CurrentIndex]
	result := &PositionResult{
		Reached:    true,
		Checkpoint: &reachedCopy,
		Completed:  session.CurrentIndex == len(session.Checkpoints)-1,
	}
	if result.Completed {
		session.Completed = true
	} else {
		nextCopy := session.Checkpoints[session.CurrentIndex+1]
		result.NextCheckpoint = &nextCopy
	}

	st.logger.Infof("체크포인트 진행 - 세션: %s, 체크포인트: %d (%s)",
		sessionID, reachedCopy.ID, reachedCopy.Type)

	return result, nil
}

// End 세션 종료 및 제거
func (st *SessionStore) End(sessionID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(st.sessions, sessionID)
	st.logger.Infof("안내 세션 종료 - ID: %s", sessionID)
	return nil
}

// Count 활성 세션 수 반환
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
