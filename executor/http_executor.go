package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPExecutor runs ExecutorTasks whose input_bindings describe an HTTP
// request: "url" (required), "method" (default GET), "body", and
// "content_type". Any binding key prefixed "header_" is sent as a request
// header, with the prefix stripped.
type HTTPExecutor struct {
	Client *http.Client
}

// NewHTTPExecutor creates an HTTP executor with a default client timeout;
// the per-task timeout from ExecutorTask.TimeoutMs still governs via the
// request context, and the client timeout caps every request at 30s.
func NewHTTPExecutor() *HTTPExecutor {
	return &HTTPExecutor{Client: &http.Client{Timeout: 30 * time.Second}}
}

// Name returns the executor's identifier.
func (e *HTTPExecutor) Name() string { return "http" }

// CanHandle reports whether task targets this executor and carries a url
// binding.
func (e *HTTPExecutor) CanHandle(task ExecutorTask) bool {
	if task.ExecutorKind != "http" {
		return false
	}
	return task.InputBindings["url"] != ""
}

// Execute issues the bound HTTP request and reports its outcome.
func (e *HTTPExecutor) Execute(ctx context.Context, task ExecutorTask) (ExecutorResult, error) {
	url := task.InputBindings["url"]
	if url == "" {
		err := fmt.Errorf("executor: http task %s missing url binding", task.TaskID)
		return ExecutorResult{Success: false, Error: err.Error()}, err
	}

	method := strings.ToUpper(task.InputBindings["method"])
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if b := task.InputBindings["body"]; b != "" {
		body = strings.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return ExecutorResult{Success: false, Error: err.Error()}, err
	}

	if ct := task.InputBindings["content_type"]; ct != "" {
		req.Header.Set("Content-Type", ct)
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range task.InputBindings {
		if strings.HasPrefix(key, "header_") {
			req.Header.Set(strings.TrimPrefix(key, "header_"), value)
		}
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return ExecutorResult{Success: false, Error: err.Error()}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ExecutorResult{Success: false, Error: err.Error()}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("http request failed with status %d: %s", resp.StatusCode, string(respBody))
		return ExecutorResult{Success: false, Output: string(respBody), Error: msg}, fmt.Errorf("executor: %s", msg)
	}

	return ExecutorResult{Success: true, Output: string(respBody)}, nil
}
