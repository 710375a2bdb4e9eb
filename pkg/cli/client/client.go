// Package client 提供Task Graph服务的HTTP API客户端
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LENAX/task-graph/pkg/api/dto"
)

// Client Task Graph HTTP API客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建客户端
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ========== Task API ==========

// CreateTask 创建Task
func (c *Client) CreateTask(title, description string, dependencies []string) (*dto.TaskView, error) {
	req := dto.CreateTaskRequest{Title: title, Description: description, Dependencies: dependencies}
	var resp dto.APIResponse[dto.TaskView]
	if err := c.post("/api/v1/tasks", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// ListTasks 列出Task（status为空表示不过滤）
func (c *Client) ListTasks(status, agentID string) (*dto.ListResponse[dto.TaskView], error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if agentID != "" {
		query.Set("assignedAgentId", agentID)
	}
	path := "/api/v1/tasks"
	if encoded := query.Encode(); encoded != "" {
		path = path + "?" + encoded
	}

	var resp dto.APIResponse[dto.ListResponse[dto.TaskView]]
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// GetTask 查询Task详情
func (c *Client) GetTask(id string) (*dto.TaskView, error) {
	var resp dto.APIResponse[dto.TaskView]
	if err := c.get("/api/v1/tasks/"+id, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// UpdateTask 部分更新Task
func (c *Client) UpdateTask(id string, req dto.UpdateTaskRequest) (*dto.TaskView, error) {
	var resp dto.APIResponse[dto.TaskView]
	if err := c.patch("/api/v1/tasks/"+id, req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// DeleteTask 删除Task，返回是否实际删除
func (c *Client) DeleteTask(id string) (bool, error) {
	var resp dto.APIResponse[dto.DeleteResponse]
	if err := c.delete("/api/v1/tasks/"+id, &resp); err != nil {
		return false, err
	}
	if resp.Code != 0 {
		return false, errors.New(resp.Message)
	}
	return resp.Data.Deleted, nil
}

// NextTask 获取下一个就绪Task
func (c *Client) NextTask() (*dto.NextTaskResponse, error) {
	var resp dto.APIResponse[dto.NextTaskResponse]
	if err := c.get("/api/v1/tasks/next", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// Frontier 获取当前全部就绪Task
func (c *Client) Frontier() (*dto.ListResponse[dto.TaskView], error) {
	var resp dto.APIResponse[dto.ListResponse[dto.TaskView]]
	if err := c.get("/api/v1/tasks/frontier", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// ========== 依赖/子Task API ==========

// AddDependency 添加依赖边
func (c *Client) AddDependency(taskID, dependsOnID string) (*dto.TaskView, error) {
	req := dto.AddDependencyRequest{DependsOnID: dependsOnID}
	var resp dto.APIResponse[dto.TaskView]
	if err := c.post("/api/v1/tasks/"+taskID+"/dependencies", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// RemoveDependency 移除依赖边
func (c *Client) RemoveDependency(taskID, dependsOnID string) (*dto.TaskView, error) {
	var resp dto.APIResponse[dto.TaskView]
	if err := c.delete("/api/v1/tasks/"+taskID+"/dependencies/"+dependsOnID, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// AddSubtask 挂载子Task
func (c *Client) AddSubtask(parentID, childID string) (*dto.TaskView, error) {
	req := dto.AddSubtaskRequest{ChildID: childID}
	var resp dto.APIResponse[dto.TaskView]
	if err := c.post("/api/v1/tasks/"+parentID+"/subtasks", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// RemoveSubtask 移除子Task
func (c *Client) RemoveSubtask(parentID, childID string) (*dto.TaskView, error) {
	var resp dto.APIResponse[dto.TaskView]
	if err := c.delete("/api/v1/tasks/"+parentID+"/subtasks/"+childID, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// Plan 获取依赖图的拓扑分层
func (c *Client) Plan() (*dto.PlanResponse, error) {
	var resp dto.APIResponse[dto.PlanResponse]
	if err := c.get("/api/v1/graph/plan", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.New(resp.Message)
	}
	return &resp.Data, nil
}

// ========== HTTP辅助方法 ==========

func (c *Client) get(path string, result interface{}) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result interface{}) error {
	return c.do(http.MethodPost, path, body, result)
}

func (c *Client) patch(path string, body, result interface{}) error {
	return c.do(http.MethodPatch, path, body, result)
}

func (c *Client) delete(path string, result interface{}) error {
	return c.do(http.MethodDelete, path, nil, result)
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求失败: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("构建请求失败: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("解析响应失败 (HTTP %d): %w", resp.StatusCode, err)
	}
	return nil
}
