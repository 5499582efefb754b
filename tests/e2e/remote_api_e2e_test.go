//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestRemoteAPI_PlaceAndInspect(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	client := &http.Client{Timeout: 20 * time.Second}

	status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/game/reset", nil)
	if status != http.StatusOK {
		t.Fatalf("reset status=%d body=%s", status, string(body))
	}
	status, body = mustJSON(t, client, http.MethodPost, baseURL+"/api/game/pause", nil)
	if status != http.StatusOK {
		t.Fatalf("pause status=%d body=%s", status, string(body))
	}

	t.Run("place and read back", func(t *testing.T) {
		status, placeBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/city/place", map[string]any{
			"x": 3, "y": 3, "type": "Farm-Wheat",
		})
		if status != http.StatusOK {
			t.Fatalf("place status=%d body=%s", status, string(placeBody))
		}
		var placed map[string]any
		if err := json.Unmarshal(placeBody, &placed); err != nil {
			t.Fatalf("unmarshal place: %v body=%s", err, string(placeBody))
		}
		if placed["paid"] != true {
			t.Fatalf("expected paid placement, body=%s", string(placeBody))
		}
		name, _ := asMap(placed["record"])["name"].(string)

		status, again := mustJSON(t, client, http.MethodPost, baseURL+"/api/city/place", map[string]any{
			"x": 3, "y": 3, "type": "roads",
		})
		if status != http.StatusConflict {
			t.Fatalf("expected 409 on occupied tile, got %d body=%s", status, string(again))
		}

		status, recBody := mustJSON(t, client, http.MethodGet, baseURL+"/api/city/buildings/"+name, nil)
		if status != http.StatusOK {
			t.Fatalf("get building status=%d body=%s", status, string(recBody))
		}

		status, expBody := mustJSON(t, client, http.MethodGet, baseURL+"/api/city/expenses", nil)
		if status != http.StatusOK {
			t.Fatalf("expenses status=%d body=%s", status, string(expBody))
		}
		var exp map[string]any
		_ = json.Unmarshal(expBody, &exp)
		if len(asSlice(exp["expenses"])) != 1 {
			t.Fatalf("expected one expense line, body=%s", string(expBody))
		}
	})

	t.Run("status and kpi", func(t *testing.T) {
		status, statusBody := mustJSON(t, client, http.MethodGet, baseURL+"/api/game/status", nil)
		if status != http.StatusOK {
			t.Fatalf("status status=%d body=%s", status, string(statusBody))
		}
		var st map[string]any
		if err := json.Unmarshal(statusBody, &st); err != nil {
			t.Fatalf("unmarshal status: %v", err)
		}
		if st["paused"] != true {
			t.Fatalf("expected paused game, body=%s", string(statusBody))
		}
		status, kpiBody := mustJSON(t, client, http.MethodGet, baseURL+"/ops/kpi", nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(kpiBody))
		}
	})

	t.Run("stream sends stats after resume", func(t *testing.T) {
		wsURL := envOr("E2E_STREAM_URL", "ws://localhost:8081/ws")
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("dial stream: %v", err)
		}
		defer conn.Close()

		mustJSON(t, client, http.MethodPost, baseURL+"/api/game/speed", map[string]any{"interval_ms": 200})
		mustJSON(t, client, http.MethodPost, baseURL+"/api/game/resume", nil)

		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read stream: %v", err)
			}
			var msg map[string]any
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("decode stream frame: %v", err)
			}
			if msg["type"] == "stats" {
				return
			}
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url string, body any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, body)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	return status, respBody
}

func doRequest(client *http.Client, method, url string, body any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
