package crm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bluebird1313/reporder/internal/config"
)

// ErrNotConfigured is returned when no Streak API key is set.
var ErrNotConfigured = errors.New("streak api key not configured")

const (
	defaultBaseURL = "https://www.streak.com/api/v1"

	TaskStatusComplete   = "COMPLETE"
	TaskStatusIncomplete = "INCOMPLETE"
)

// Scan limits for the recent-tasks aggregation. Streak has no cross-pipeline
// task listing, so recency is approximated by walking a bounded slice of the
// workspace.
const (
	recentTaskPipelines   = 3
	recentTaskBoxesPerPip = 10
)

type User struct {
	Email    string `json:"email"`
	Key      string `json:"key"`
	FullName string `json:"fullName"`
}

type Task struct {
	Key                    string `json:"key"`
	Name                   string `json:"name"`
	AssignedToSharingEntry string `json:"assignedToSharingEntry,omitempty"`
	Status                 string `json:"status"`
	DueDate                int64  `json:"dueDate,omitempty"`
	Notes                  string `json:"notes,omitempty"`
	CreationTimestamp      int64  `json:"creationTimestamp"`
	LastUpdatedTimestamp   int64  `json:"lastUpdatedTimestamp"`
}

// BoxTask is a task annotated with the box it belongs to, for display feeds.
type BoxTask struct {
	Task
	BoxKey  string `json:"boxKey"`
	BoxName string `json:"boxName"`
}

type Contact struct {
	Key                    string         `json:"key"`
	Name                   string         `json:"name"`
	EmailAddresses         []ContactEmail `json:"emailAddresses"`
	LastContactedTimestamp int64          `json:"lastContactedTimestamp,omitempty"`
	EmailsOpenedCount      int            `json:"emailsOpenedCount,omitempty"`
}

type ContactEmail struct {
	Email string `json:"email"`
}

type Pipeline struct {
	Key        string                   `json:"key"`
	Name       string                   `json:"name"`
	StageOrder []string                 `json:"stageOrder"`
	Stages     map[string]PipelineStage `json:"stages"`
}

type PipelineStage struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Box is a Streak deal/opportunity card.
type Box struct {
	Key                      string   `json:"key"`
	Name                     string   `json:"name"`
	Notes                    string   `json:"notes,omitempty"`
	StageKey                 string   `json:"stageKey"`
	PipelineKey              string   `json:"pipelineKey"`
	AssignedToSharingEntries []string `json:"assignedToSharingEntries"`
	CreationTimestamp        int64    `json:"creationTimestamp"`
	LastUpdatedTimestamp     int64    `json:"lastUpdatedTimestamp"`
}

// BoxUpdate carries the mutable box fields for updates. Nil fields stay
// untouched.
type BoxUpdate struct {
	Name     *string `json:"name,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	StageKey *string `json:"stageKey,omitempty"`
}

// TaskUpdate carries the mutable task fields for updates.
type TaskUpdate struct {
	Name    *string `json:"name,omitempty"`
	Status  *string `json:"status,omitempty"`
	Notes   *string `json:"notes,omitempty"`
	DueDate *int64  `json:"dueDate,omitempty"`
}

// Client talks to the Streak CRM API with Basic auth derived from the key.
type Client struct {
	apiKey      string
	baseURL     string
	pipelineKey string
	httpClient  *http.Client
}

func NewClient(cfg config.CRMConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if cfg.APIKey == "" {
		log.Warn().Msg("streak api key not set, crm features disabled")
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		pipelineKey: cfg.PipelineKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// IsConfigured reports whether the client has an API key to authenticate with.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode streak request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build streak request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.apiKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("streak request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("streak api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(errorText)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode streak response: %w", err)
	}
	return nil
}

func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetPipelines(ctx context.Context) ([]Pipeline, error) {
	var pipelines []Pipeline
	if err := c.doRequest(ctx, http.MethodGet, "/pipelines", nil, &pipelines); err != nil {
		return nil, err
	}
	return pipelines, nil
}

func (c *Client) GetPipeline(ctx context.Context, pipelineKey string) (*Pipeline, error) {
	var pipeline Pipeline
	if err := c.doRequest(ctx, http.MethodGet, "/pipelines/"+url.PathEscape(pipelineKey), nil, &pipeline); err != nil {
		return nil, err
	}
	return &pipeline, nil
}

func (c *Client) GetBoxes(ctx context.Context, pipelineKey string) ([]Box, error) {
	var boxes []Box
	if err := c.doRequest(ctx, http.MethodGet, "/pipelines/"+url.PathEscape(pipelineKey)+"/boxes", nil, &boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

func (c *Client) GetBox(ctx context.Context, boxKey string) (*Box, error) {
	var box Box
	if err := c.doRequest(ctx, http.MethodGet, "/boxes/"+url.PathEscape(boxKey), nil, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

func (c *Client) CreateBox(ctx context.Context, pipelineKey, name, notes string) (*Box, error) {
	payload := map[string]string{"name": name, "notes": notes}

	var box Box
	if err := c.doRequest(ctx, http.MethodPost, "/pipelines/"+url.PathEscape(pipelineKey)+"/boxes", payload, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

func (c *Client) UpdateBox(ctx context.Context, boxKey string, update BoxUpdate) (*Box, error) {
	var box Box
	if err := c.doRequest(ctx, http.MethodPost, "/boxes/"+url.PathEscape(boxKey), update, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

func (c *Client) GetTasks(ctx context.Context, boxKey string) ([]Task, error) {
	var tasks []Task
	if err := c.doRequest(ctx, http.MethodGet, "/boxes/"+url.PathEscape(boxKey)+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, boxKey, name, assignedTo string, dueDate *time.Time) (*Task, error) {
	payload := map[string]interface{}{
		"name":   name,
		"status": TaskStatusIncomplete,
	}
	if assignedTo != "" {
		payload["assignedToSharingEntry"] = assignedTo
	}
	if dueDate != nil {
		payload["dueDate"] = dueDate.UnixMilli()
	}

	var task Task
	if err := c.doRequest(ctx, http.MethodPost, "/boxes/"+url.PathEscape(boxKey)+"/tasks", payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, boxKey, taskKey string, update TaskUpdate) (*Task, error) {
	endpoint := "/boxes/" + url.PathEscape(boxKey) + "/tasks/" + url.PathEscape(taskKey)

	var task Task
	if err := c.doRequest(ctx, http.MethodPost, endpoint, update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CompleteTask(ctx context.Context, boxKey, taskKey string) (*Task, error) {
	status := TaskStatusComplete
	return c.UpdateTask(ctx, boxKey, taskKey, TaskUpdate{Status: &status})
}

func (c *Client) GetContacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	if err := c.doRequest(ctx, http.MethodGet, "/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) GetContact(ctx context.Context, contactKey string) (*Contact, error) {
	var contact Contact
	if err := c.doRequest(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactKey), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) SearchContacts(ctx context.Context, query string) ([]Contact, error) {
	var contacts []Contact
	if err := c.doRequest(ctx, http.MethodGet, "/contacts?q="+url.QueryEscape(query), nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetStoreOpportunities finds the open boxes whose names mention the store.
// With no explicit pipeline key it falls back to the first pipeline whose
// name mentions sales or opportunity.
func (c *Client) GetStoreOpportunities(ctx context.Context, storeName string) ([]Box, error) {
	pipelineKey := c.pipelineKey

	if pipelineKey == "" {
		pipelines, err := c.GetPipelines(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range pipelines {
			name := strings.ToLower(p.Name)
			if strings.Contains(name, "sales") || strings.Contains(name, "opportunity") {
				pipelineKey = p.Key
				break
			}
		}
	}

	if pipelineKey == "" {
		return []Box{}, nil
	}

	boxes, err := c.GetBoxes(ctx, pipelineKey)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(storeName)
	matched := make([]Box, 0, len(boxes))
	for _, box := range boxes {
		if strings.Contains(strings.ToLower(box.Name), needle) {
			matched = append(matched, box)
		}
	}

	return matched, nil
}

// GetRecentTasks walks the first few pipelines and boxes, collects their
// tasks and returns the most recently updated ones. Boxes whose tasks cannot
// be fetched are skipped.
func (c *Client) GetRecentTasks(ctx context.Context, limit int) ([]BoxTask, error) {
	if limit <= 0 {
		limit = 10
	}

	pipelines, err := c.GetPipelines(ctx)
	if err != nil {
		return nil, err
	}
	if len(pipelines) > recentTaskPipelines {
		pipelines = pipelines[:recentTaskPipelines]
	}

	var all []BoxTask
	for _, pipeline := range pipelines {
		boxes, err := c.GetBoxes(ctx, pipeline.Key)
		if err != nil {
			return nil, err
		}
		if len(boxes) > recentTaskBoxesPerPip {
			boxes = boxes[:recentTaskBoxesPerPip]
		}

		for _, box := range boxes {
			tasks, err := c.GetTasks(ctx, box.Key)
			if err != nil {
				log.Debug().Err(err).Str("box", box.Key).Msg("skipping box tasks")
				continue
			}
			for _, task := range tasks {
				all = append(all, BoxTask{Task: task, BoxKey: box.Key, BoxName: box.Name})
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].LastUpdatedTimestamp > all[j].LastUpdatedTimestamp
	})
	if len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}

// TestConnection verifies the key by fetching the current user.
func (c *Client) TestConnection(ctx context.Context) bool {
	if _, err := c.GetCurrentUser(ctx); err != nil {
		log.Warn().Err(err).Msg("streak connection test failed")
		return false
	}
	return true
}
