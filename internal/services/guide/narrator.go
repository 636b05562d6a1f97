package guide

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SeSACton-B-FAI/B-FAI-Backend/config"
	"github.com/SeSACton-B-FAI/B-FAI-Backend/internal/utils"
)

// Narrator 템플릿 안내문을 자연스러운 문장으로 다듬는 인터페이스
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// systemPrompt 안내문 생성 시스템 프롬프트
const systemPrompt = `당신은 교통약자를 위한 지하철 안내 도우미입니다.
주어진 안내 정보를 음성 안내에 적합한 하나의 자연스러운 문단으로 정리하세요.
정보를 추가하거나 빼지 말고, 짧고 명확한 문장을 사용하세요.`

// HTTPNarrator OpenAI 호환 챗 API 기반 안내문 생성기
type HTTPNarrator struct {
	endpoint string
	apiKey   string
	model    string
	timeout  time.Duration
	client   *http.Client
	logger   *utils.Logger
}

// NewHTTPNarrator 새로운 안내문 생성기 생성
func NewHTTPNarrator(cfg *config.Config, logger *utils.Logger) *HTTPNarrator {
	endpoint := cfg.NarratorEndpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}

	return &HTTPNarrator{
		endpoint: endpoint,
		apiKey:   cfg.NarratorAPIKey,
		model:    cfg.NarratorModel,
		timeout:  cfg.NarratorTimeout,
		client: &http.Client{
			Timeout: cfg.NarratorTimeout,
		},
		logger: logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Narrate 프롬프트로 안내문 생성
func (n *HTTPNarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: n.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("요청 마샬링 실패: %v", err)
	}

	narrateCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(narrateCtx, http.MethodPost, n.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("요청 생성 실패: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("안내문 생성 호출 실패: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("안내문 생성 응답 오류 (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("안내문 생성 응답 파싱 실패: %v", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("안내문 생성 응답이 비어있습니다")
	}

	return parsed.Choices[0].Message.Content, nil
}
