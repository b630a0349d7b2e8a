package reports

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestCountByTypeAndMonth(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"month", "type", "count"}).
		AddRow("June", "De-Briefing", 2).
		AddRow("June", "Planning Session", 1).
		AddRow("May", "De-Briefing", 3)
	mock.ExpectQuery("SELECT to_char").WillReturnRows(rows)

	got, err := repo.CountByTypeAndMonth(context.Background())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(got) != 3 || got[0].Month != "June" || got[2].Count != 3 {
		t.Fatalf("unexpected rows: %#v", got)
	}
}

func TestContactSchedule(t *testing.T) {
	repo, mock := newMockRepo(t)

	start := time.Date(2024, 6, 10, 13, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "type", "description", "start_time", "end_time", "customer_id"}).
		AddRow(1, "Kickoff", "Planning Session", "initial sync", start, start.Add(time.Hour), 3).
		AddRow(2, "Review", "De-Briefing", "follow up", start.Add(2*time.Hour), start.Add(3*time.Hour), 3)
	mock.ExpectQuery("SELECT id, title, type, description").
		WithArgs(2).
		WillReturnRows(rows)

	got, err := repo.ContactSchedule(context.Background(), 2)
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Kickoff" || !got[1].Start.Equal(start.Add(2*time.Hour)) {
		t.Fatalf("unexpected schedule: %#v", got)
	}
	if got[0].Start.Location() != time.UTC {
		t.Fatalf("expected UTC times, got %v", got[0].Start.Location())
	}
}

func TestContactScheduleEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, title, type, description").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "type", "description", "start_time", "end_time", "customer_id"}))

	got, err := repo.ContactSchedule(context.Background(), 99)
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestUpcomingForUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Date(2024, 6, 10, 12, 50, 0, 0, time.UTC)
	start := time.Date(2024, 6, 10, 13, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "start_time", "end_time", "customer_id", "contact_id"}).
		AddRow(7, "Kickoff", start, start.Add(time.Hour), 3, 2)
	mock.ExpectQuery("SELECT id, title, start_time").
		WithArgs(1, now, now.Add(UpcomingWindow)).
		WillReturnRows(rows)

	got, err := repo.UpcomingForUser(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if got == nil || got.AppointmentID != 7 || !got.Start.Equal(start) {
		t.Fatalf("unexpected upcoming: %#v", got)
	}
}

func TestUpcomingForUserNone(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Date(2024, 6, 10, 12, 50, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, title, start_time").
		WithArgs(1, now, now.Add(UpcomingWindow)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_time", "end_time", "customer_id", "contact_id"}))

	got, err := repo.UpcomingForUser(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}
