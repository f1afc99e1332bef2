// Package meetings accesses the calendar endpoints through the shared API
// client.
package meetings

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/teamboard/client/internal/models"
)

// Client is the slice of the API client the meeting service needs.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

const basePath = "/api/v1/meetings"

// Filter narrows a meeting listing. Zero fields are omitted from the query.
type Filter struct {
	Start       *time.Time
	End         *time.Time
	MeetingType string
}

// Service exposes calendar operations.
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

func (f Filter) apply(q url.Values) {
	if f.Start != nil {
		q.Set("start_date", f.Start.UTC().Format(time.RFC3339))
	}
	if f.End != nil {
		q.Set("end_date", f.End.UTC().Format(time.RFC3339))
	}
	if f.MeetingType != "" {
		q.Set("meeting_type", f.MeetingType)
	}
}

// List returns meetings matching the filter.
func (s *Service) List(ctx context.Context, skip, limit int, filter Filter) ([]models.Meeting, error) {
	q := pageQuery(skip, limit)
	filter.apply(q)
	var out []models.Meeting
	if err := s.client.Get(ctx, basePath+"/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mine returns meetings the current user participates in.
func (s *Service) Mine(ctx context.Context, skip, limit int, filter Filter) ([]models.Meeting, error) {
	q := pageQuery(skip, limit)
	filter.apply(q)
	var out []models.Meeting
	if err := s.client.Get(ctx, basePath+"/my-meetings?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Meeting, error) {
	var out models.Meeting
	if err := s.client.Get(ctx, fmt.Sprintf("%s/%d", basePath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Create(ctx context.Context, meeting models.MeetingCreate) (*models.Meeting, error) {
	var out models.Meeting
	if err := s.client.Post(ctx, basePath+"/", meeting, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int64, upd models.MeetingUpdate) (*models.Meeting, error) {
	var out models.Meeting
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), nil)
}

// SetAttendance records the current user's attendance status for a meeting.
func (s *Service) SetAttendance(ctx context.Context, meetingID int64, upd models.AttendanceUpdate) error {
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/attendance", basePath, meetingID), upd, nil)
}

// Attendances lists all attendance records of a meeting.
func (s *Service) Attendances(ctx context.Context, meetingID int64) ([]models.Attendance, error) {
	var out []models.Attendance
	if err := s.client.Get(ctx, fmt.Sprintf("%s/%d/attendance", basePath, meetingID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyAttendances lists the current user's attendance records.
func (s *Service) MyAttendances(ctx context.Context, skip, limit int) ([]models.Attendance, error) {
	var out []models.Attendance
	if err := s.client.Get(ctx, basePath+"/user/attendances?"+pageQuery(skip, limit).Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
