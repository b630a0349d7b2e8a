package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

func newTestHandler(t *testing.T, appts *fakeAppointmentStore) (*Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	repo, mock := newMockRepo(t)
	if appts == nil {
		appts = &fakeAppointmentStore{}
	}
	deleter := NewCascadeDeleter(appts, repo, logging.Default(), nil)
	h := NewHandler(repo, deleter, logging.Default(), "system").
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) })
	return h, mock
}

func TestCreateCustomer(t *testing.T) {
	h, mock := newTestHandler(t, nil)

	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(4))
	mock.ExpectExec("INSERT INTO customers").
		WithArgs(4, "Daddy Warbucks", "1919 Boardwalk", "01291", "869-908-1875", 29,
			stamp, "admin", stamp, "admin").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	body, _ := json.Marshal(map[string]any{
		"name":        "Daddy Warbucks",
		"address":     "1919 Boardwalk",
		"postal_code": "01291",
		"phone":       "869-908-1875",
		"division_id": 29,
	})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("X-Actor", "admin")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode customer: %v", err)
	}
	if created.ID != 4 || created.CreatedBy != "admin" {
		t.Fatalf("unexpected customer: %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateCustomerRejectsBlankFields(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	body, _ := json.Marshal(map[string]any{
		"name":        "  ",
		"address":     "1919 Boardwalk",
		"postal_code": "01291",
		"phone":       "869-908-1875",
		"division_id": 29,
	})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestDeleteCustomerCascadesOverHTTP(t *testing.T) {
	appts := &fakeAppointmentStore{appointments: dependents(3, 10, 11)}
	h, mock := newTestHandler(t, appts)

	mock.ExpectExec("DELETE FROM customers").
		WithArgs(3).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	req := httptest.NewRequest(http.MethodDelete, "/3", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result DeleteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.AppointmentsDeleted != 2 {
		t.Fatalf("expected 2 dependents deleted, got %d", result.AppointmentsDeleted)
	}

	// The deleter consumed the fake appointment store directly.
	remaining, _ := appts.ListForCustomer(context.Background(), 3)
	if len(remaining) != len(appts.appointments) {
		t.Fatalf("fake store list changed unexpectedly")
	}
	if len(appts.deleted) != 2 {
		t.Fatalf("expected both dependent deletes issued, got %v", appts.deleted)
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	h, mock := newTestHandler(t, nil)

	mock.ExpectExec("DELETE FROM customers").
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	req := httptest.NewRequest(http.MethodDelete, "/99", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
