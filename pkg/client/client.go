package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/k7sle/tmv71d/pkg/protocol"
)

// Client talks to a running tmv71d over its HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client for the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body, out interface{}) error {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) put(path string, body, out interface{}) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

// Status gets the current daemon status
func (c *Client) Status() (*protocol.Status, error) {
	var status protocol.Status
	if err := c.get("/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// IsConnected tests if the daemon is reachable
func (c *Client) IsConnected() bool {
	_, err := c.Status()
	return err == nil
}

// Frequency reads the receive frequency of a selector
func (c *Client) Frequency(vfo string) (int64, error) {
	var out struct {
		Frequency int64 `json:"frequency"`
	}
	if err := c.get("/api/v1/radio/frequency?vfo="+vfo, &out); err != nil {
		return 0, err
	}
	return out.Frequency, nil
}

// SetFrequency tunes a selector
func (c *Client) SetFrequency(vfo string, hz int64) error {
	return c.put("/api/v1/radio/frequency", protocol.FrequencyRequest{VFO: vfo, Frequency: hz}, nil)
}

// SetSplitFrequency tunes the transmit side of an active split
func (c *Client) SetSplitFrequency(vfo string, hz int64) error {
	return c.put("/api/v1/radio/split_frequency", protocol.FrequencyRequest{VFO: vfo, Frequency: hz}, nil)
}

// SetMode sets the operating mode of a selector
func (c *Client) SetMode(vfo, mode string) error {
	return c.put("/api/v1/radio/mode", protocol.ModeRequest{VFO: vfo, Mode: mode}, nil)
}

// SetVFO selects a pseudo-VFO or memory operation
func (c *Client) SetVFO(vfo string) error {
	return c.put("/api/v1/radio/vfo", protocol.VFORequest{VFO: vfo}, nil)
}

// SetSplit configures split operation
func (c *Client) SetSplit(tx string, on bool) error {
	return c.put("/api/v1/radio/split", protocol.SplitRequest{On: on, TX: tx}, nil)
}

// SetPTT keys or unkeys the transmitter
func (c *Client) SetPTT(on bool) error {
	return c.put("/api/v1/radio/ptt", protocol.PTTRequest{On: on}, nil)
}

// Channel reads one memory channel record
func (c *Client) Channel(channel int) (*protocol.ChannelRecord, error) {
	var rec protocol.ChannelRecord
	if err := c.get(fmt.Sprintf("/api/v1/channels/%d", channel), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// StoreChannel writes one memory channel record
func (c *Client) StoreChannel(rec protocol.ChannelRecord) error {
	return c.put(fmt.Sprintf("/api/v1/channels/%d", rec.Channel), rec, nil)
}

// SaveBackup snapshots the radio's channels and returns the backup ID
func (c *Client) SaveBackup(label string) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	body := map[string]string{"label": label}
	if err := c.post("/api/v1/backups", body, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// ListBackups lists stored snapshots
func (c *Client) ListBackups() ([]protocol.BackupInfo, error) {
	var out struct {
		Backups []protocol.BackupInfo `json:"backups"`
	}
	if err := c.get("/api/v1/backups", &out); err != nil {
		return nil, err
	}
	return out.Backups, nil
}

// RestoreBackup pushes a stored snapshot back to the radio
func (c *Client) RestoreBackup(id int64) error {
	return c.post(fmt.Sprintf("/api/v1/backups/%d/restore", id), nil, nil)
}

// DeleteBackup removes a stored snapshot
func (c *Client) DeleteBackup(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/v1/backups/%d", id), nil, nil)
}
