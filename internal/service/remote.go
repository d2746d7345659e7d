package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// RemoteError is any failed remote call: transport errors carry a zero
// StatusCode, non-2xx responses carry the HTTP status and whatever structured
// error payload the backend returned. Callers treat both the same way.
type RemoteError struct {
	StatusCode int
	Detail     string
	Raw        json.RawMessage
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("remote call failed: %s", e.Detail)
	}
	return fmt.Sprintf("remote call failed with status %d: %s", e.StatusCode, e.Detail)
}

type remoteErrorPayload struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// doJSON performs one JSON request/response round trip. No retries live here;
// retrying, if any, is a caller concern.
func doJSON(ctx context.Context, client *http.Client, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return &RemoteError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return &RemoteError{Detail: err.Error()}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		remoteErr := &RemoteError{StatusCode: resp.StatusCode, Raw: data}
		var payload remoteErrorPayload
		if err := json.Unmarshal(data, &payload); err == nil {
			if payload.Detail != "" {
				remoteErr.Detail = payload.Detail
			} else if payload.Error != "" {
				remoteErr.Detail = payload.Error
			}
		}
		if remoteErr.Detail == "" {
			remoteErr.Detail = strings.TrimSpace(string(data))
		}
		slog.Info(remoteErr.Error())
		return remoteErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			slog.Info(err.Error())
			return &RemoteError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("decoding response: %v", err), Raw: data}
		}
	}
	return nil
}
