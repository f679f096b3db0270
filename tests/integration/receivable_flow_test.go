package integration

import (
	"fmt"
	"net/http"
	"testing"

	"bizledger/internal/models"
)

func TestReceivableFlow(t *testing.T) {
	t.Run("partial_then_full_receipt", func(t *testing.T) {
		app := setupApp(t)
		token := app.seedUser(t, "owner", models.UserRoleAdmin)

		body := `{"title":"Invoice INV-2024-001","amount":"1000","invoice_date":"2024-01-01"}`
		rec := app.request("POST", "/api/v1/receivables", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed to create receivable: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		receivable := result["receivable"].(map[string]interface{})
		id := uint(receivable["id"].(float64))

		if receivable["status"] != "pending" {
			t.Errorf("expected status pending, got %v", receivable["status"])
		}
		// Default terms push the due date 30 days past the invoice date.
		dueDate := receivable["due_date"].(string)
		if dueDate[:10] != "2024-01-31" {
			t.Errorf("expected due date 2024-01-31, got %v", dueDate)
		}

		rec = app.request("POST", fmt.Sprintf("/api/v1/receivables/%d/receipts", id), `{"amount":"400"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed to record receipt: %d %s", rec.Code, rec.Body.String())
		}
		result = parseJSON(t, rec)
		receivable = result["receivable"].(map[string]interface{})
		if receivable["status"] != "partial" {
			t.Errorf("expected status partial, got %v", receivable["status"])
		}
		if receivable["received_amount"] != "400" {
			t.Errorf("expected received_amount 400, got %v", receivable["received_amount"])
		}

		rec = app.request("POST", fmt.Sprintf("/api/v1/receivables/%d/receipts", id), `{"amount":"600"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed to record receipt: %d %s", rec.Code, rec.Body.String())
		}
		result = parseJSON(t, rec)
		receivable = result["receivable"].(map[string]interface{})
		if receivable["status"] != "received" {
			t.Errorf("expected status received, got %v", receivable["status"])
		}
		if receivable["received_at"] == nil {
			t.Error("expected received_at to be set")
		}

		// A settled receivable accepts no further receipts.
		rec = app.request("POST", fmt.Sprintf("/api/v1/receivables/%d/receipts", id), `{"amount":"1"}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("stats_reflect_outstanding_balances", func(t *testing.T) {
		app := setupApp(t)
		token := app.seedUser(t, "owner", models.UserRoleAdmin)

		body := `{"title":"Open invoice","amount":"900","invoice_date":"2024-01-01"}`
		rec := app.request("POST", "/api/v1/receivables", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed to create receivable: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		id := uint(result["receivable"].(map[string]interface{})["id"].(float64))

		rec = app.request("POST", fmt.Sprintf("/api/v1/receivables/%d/receipts", id), `{"amount":"300"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed to record receipt: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/receivables/stats", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result = parseJSON(t, rec)
		stats := result["stats"].(map[string]interface{})

		if stats["total_amount"] != "900" {
			t.Errorf("expected total_amount 900, got %v", stats["total_amount"])
		}
		if stats["received_amount"] != "300" {
			t.Errorf("expected received_amount 300, got %v", stats["received_amount"])
		}
		if stats["pending_amount"] != "600" {
			t.Errorf("expected pending_amount 600, got %v", stats["pending_amount"])
		}
		// The 2024 due date is long past, so the remaining balance is overdue.
		if stats["overdue_amount"] != "600" {
			t.Errorf("expected overdue_amount 600, got %v", stats["overdue_amount"])
		}
		if stats["overdue_count"].(float64) != 1 {
			t.Errorf("expected overdue_count 1, got %v", stats["overdue_count"])
		}
	})

	t.Run("employee_cannot_record_receipts", func(t *testing.T) {
		app := setupApp(t)
		adminToken := app.seedUser(t, "owner", models.UserRoleAdmin)
		clerkToken := app.seedUser(t, "clerk", models.UserRoleEmployee)

		body := `{"title":"Invoice","amount":"100","invoice_date":"2024-01-01"}`
		rec := app.request("POST", "/api/v1/receivables", body, adminToken)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed to create receivable: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		id := uint(result["receivable"].(map[string]interface{})["id"].(float64))

		rec = app.request("POST", fmt.Sprintf("/api/v1/receivables/%d/receipts", id), `{"amount":"50"}`, clerkToken)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
		}

		// Employees can still see the outstanding book.
		rec = app.request("GET", "/api/v1/receivables", "", clerkToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
