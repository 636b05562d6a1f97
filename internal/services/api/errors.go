package api

import "fmt"

// UpstreamUnavailableError 업스트림 호출 자체가 실패한 경우 (네트워크, HTTP 오류)
type UpstreamUnavailableError struct {
	Resource string
	Err      error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("업스트림 호출 실패 (리소스: %s): %v", e.Resource, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

// MalformedEnvelopeError 응답 본문을 파싱할 수 없는 경우
type MalformedEnvelopeError struct {
	Resource string
	Err      error
}

func (e *MalformedEnvelopeError) Error() string {
	return fmt.Sprintf("응답 파싱 실패 (리소스: %s): %v", e.Resource, e.Err)
}

func (e *MalformedEnvelopeError) Unwrap() error {
	return e.Err
}

// UpstreamRejectedError 업스트림이 허용되지 않은 결과 코드를 반환한 경우
type UpstreamRejectedError struct {
	Resource string
	Code     string
	Message  string
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("업스트림 오류 응답 (리소스: %s, 코드: %s): %s", e.Resource, e.Code, e.Message)
}
