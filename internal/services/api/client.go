// internal/services/api/client.go - 업스트림 API 공통 인터페이스
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/models"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// UpstreamClient 업스트림 API 클라이언트 공통 인터페이스
// 계열별 봉투 차이를 클라이언트 내부에서 흡수하고 정규화 행만 반환한다.
type UpstreamClient interface {
	// Fetch 리소스 서술자와 파라미터로 정규화 행을 가져옴
	Fetch(ctx context.Context, desc models.ServiceDescriptor, params map[string]string) ([]models.NormalizedRow, error)

	// Family 담당하는 API 계열 반환
	Family() models.APIFamily
}

// APIClientBase 공통 베이스 구조체
type APIClientBase struct {
	config *config.Config
	logger *utils.Logger
	client *http.Client
}

// doGet HTTP GET 요청 수행 후 본문 반환
// 전송 오류와 비정상 상태 코드는 UpstreamUnavailableError로 감싼다.
func (b *APIClientBase) doGet(ctx context.Context, resource, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &UpstreamUnavailableError{Resource: resource, Err: err}
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &UpstreamUnavailableError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamUnavailableError{
			Resource: resource,
			Err:      &httpStatusError{status: resp.StatusCode},
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamUnavailableError{Resource: resource, Err: err}
	}

	return body, nil
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.status)
}
