// Package tasks accesses the task-board endpoints. All calls go through the
// shared API client so auth headers and error normalization stay consistent.
package tasks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/teamboard/client/internal/models"
)

// Client is the slice of the API client the task service needs.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

const basePath = "/api/v1/tasks"

// Service exposes task-board operations.
type Service struct {
	client Client
}

func NewService(client Client) *Service {
	return &Service{client: client}
}

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// List returns tasks, optionally filtered by task type ("personal" or "team").
func (s *Service) List(ctx context.Context, skip, limit int, taskType string) ([]models.Task, error) {
	q := pageQuery(skip, limit)
	if taskType != "" {
		q.Set("task_type", taskType)
	}
	var out []models.Task
	if err := s.client.Get(ctx, basePath+"/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Available returns tasks the current user may still accept.
func (s *Service) Available(ctx context.Context, skip, limit int) ([]models.Task, error) {
	var out []models.Task
	if err := s.client.Get(ctx, basePath+"/available?"+pageQuery(skip, limit).Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mine returns tasks published by the current user.
func (s *Service) Mine(ctx context.Context, skip, limit int) ([]models.Task, error) {
	var out []models.Task
	if err := s.client.Get(ctx, basePath+"/my-tasks?"+pageQuery(skip, limit).Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Accepted returns tasks the current user has accepted.
func (s *Service) Accepted(ctx context.Context, skip, limit int) ([]models.Task, error) {
	var out []models.Task
	if err := s.client.Get(ctx, basePath+"/accepted?"+pageQuery(skip, limit).Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Task, error) {
	var out models.Task
	if err := s.client.Get(ctx, fmt.Sprintf("%s/%d", basePath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Create(ctx context.Context, task models.TaskCreate) (*models.Task, error) {
	var out models.Task
	if err := s.client.Post(ctx, basePath+"/", task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int64, upd models.TaskUpdate) (*models.Task, error) {
	var out models.Task
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), nil)
}

// Accept claims a task for the current user.
func (s *Service) Accept(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/accept", basePath, id), nil, nil)
}

// Complete marks an accepted task as done.
func (s *Service) Complete(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/complete", basePath, id), nil, nil)
}

// Abandon releases a previously accepted task.
func (s *Service) Abandon(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/abandon", basePath, id), nil, nil)
}

func (s *Service) Search(ctx context.Context, query string, skip, limit int) ([]models.Task, error) {
	q := pageQuery(skip, limit)
	q.Set("query", query)
	var out []models.Task
	if err := s.client.Get(ctx, basePath+"/search?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
