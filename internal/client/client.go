// Package client talks to the quiz HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lesson-quiz-service/internal/domain"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is a thin JSON client. Token, when set, is sent as a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), token: token, http: httpClient}
}

// GetQuiz fetches the quiz of a lesson. A 404 wraps domain.ErrQuizNotFound.
func (c *Client) GetQuiz(ctx context.Context, lessonID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := c.do(ctx, http.MethodGet, "/api/quiz?lessonId="+url.QueryEscape(lessonID), nil, &quiz)
	if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusNotFound {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, apiErr.Message)
	}
	return quiz, err
}

// SubmitResult posts a finished attempt.
func (c *Client) SubmitResult(ctx context.Context, sub domain.ResultSubmission) (domain.UserResult, error) {
	var resp struct {
		Result domain.UserResult `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/results", sub, &resp); err != nil {
		return domain.UserResult{}, err
	}
	return resp.Result, nil
}

// ListResults fetches the caller's newest results, optionally for one lesson.
func (c *Client) ListResults(ctx context.Context, lessonID string) ([]domain.UserResult, error) {
	path := "/api/results"
	if lessonID != "" {
		path += "?lessonId=" + url.QueryEscape(lessonID)
	}
	var results []domain.UserResult
	err := c.do(ctx, http.MethodGet, path, nil, &results)
	return results, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
