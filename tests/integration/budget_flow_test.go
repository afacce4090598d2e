package integration

import (
	"net/http"
	"testing"

	"outgo/internal/testutil"
)

func TestBudgetFlow(t *testing.T) {
	t.Run("set get overwrite delete", func(t *testing.T) {
		app := setupEuroApp(t)
		token, _, _ := app.registerUser(t, "alice@example.com", "password123")

		rec := app.request("PUT", "/api/v1/budgets/2024-03", `{"amount":500,"currency":"EUR"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("set budget failed: %d %s", rec.Code, rec.Body.String())
		}

		// Overwrite, not duplicate.
		rec = app.request("PUT", "/api/v1/budgets/2024-03", `{"amount":750,"currency":"EUR"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("overwrite budget failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/budgets/2024-03", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("get budget failed: %d", rec.Code)
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["amount"].(float64) != 750 {
			t.Errorf("expected overwritten amount 750, got %v", budget["amount"])
		}

		rec = app.request("DELETE", "/api/v1/budgets/2024-03", "", token)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete budget failed: %d", rec.Code)
		}

		rec = app.request("GET", "/api/v1/budgets/2024-03", "", token)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rec.Code)
		}
	})

	t.Run("budget alert fires when spending reaches the budget", func(t *testing.T) {
		var delivered []map[string]interface{}
		fxServer := testutil.NewFxStubServer(nil)
		t.Cleanup(fxServer.Close)
		relayServer := newRelayStub(&delivered)
		t.Cleanup(relayServer.Close)
		app := setupApp(t, fxServer.URL, relayServer.URL)

		token, _, _ := app.registerUser(t, "alice@example.com", "password123")
		categoryID := app.createCategory(t, token, "Groceries")

		app.request("PUT", "/api/v1/budgets/2024-03", `{"amount":100,"currency":"EUR"}`, token)

		// Under budget: no notification.
		app.createExpense(t, token, categoryID, 60, "EUR", "2024-03-05")
		if len(delivered) != 0 {
			t.Fatalf("expected no notification yet, got %d", len(delivered))
		}

		// This one lands exactly on the budget: reaching it counts as over.
		app.createExpense(t, token, categoryID, 40, "EUR", "2024-03-10")
		if len(delivered) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(delivered))
		}
		if delivered[0]["title"] != "Budget alert" {
			t.Errorf("unexpected notification %v", delivered[0])
		}

		rec := app.request("GET", "/api/v1/budgets/2024-03/status", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("budget status failed: %d %s", rec.Code, rec.Body.String())
		}
		status := parseJSON(t, rec)["status"].(map[string]interface{})
		if status["over_budget"] != true {
			t.Errorf("expected over_budget true, got %v", status)
		}
		if status["spent"].(float64) != 100 {
			t.Errorf("expected spent 100, got %v", status["spent"])
		}

		// Polling the status while over budget is a pure read; only
		// expense writes fire alerts.
		app.request("GET", "/api/v1/budgets/2024-03/status", "", token)
		app.request("GET", "/api/v1/budgets/2024-03/status", "", token)
		if len(delivered) != 1 {
			t.Errorf("expected still 1 notification after status polls, got %d", len(delivered))
		}
	})

	t.Run("expense creation succeeds when relay has no subscription", func(t *testing.T) {
		app := setupEuroApp(t)

		token, _, _ := app.registerUser(t, "alice@example.com", "password123")
		categoryID := app.createCategory(t, token, "Groceries")
		app.request("PUT", "/api/v1/budgets/2024-03", `{"amount":10,"currency":"EUR"}`, token)

		// Blows through the budget; the relay answers 404, but the expense
		// write must still report success.
		expenseID := app.createExpense(t, token, categoryID, 50, "EUR", "2024-03-05")
		if expenseID == "" {
			t.Fatal("expected expense created despite failed notification")
		}
	})
}
