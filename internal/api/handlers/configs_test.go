package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/testutil"
)

func TestConfigHandler(t *testing.T) {
	t.Run("returns defaults when nothing is stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewConfigHandler(testutil.NewTestConfigService(t, db))

		req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
		w := httptest.NewRecorder()

		handler.GetConfigs(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if body := w.Body.String(); body != "{\"kuveraFunds\":[]}\n" {
			t.Errorf("Expected empty fund list, got %s", body)
		}
	})

	t.Run("stores and returns fund mappings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewConfigHandler(testutil.NewTestConfigService(t, db))

		req := testutil.NewJSONRequest(http.MethodPut, "/api/config",
			`{"kuveraFunds":[{"name":"Axis Bluechip Fund Direct Growth","symbol":"0P0000XVJD.BO"}]}`, nil)
		w := httptest.NewRecorder()

		handler.UpdateConfigs(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		handler.GetConfigs(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))

		var configs model.Configs
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&configs)

		if len(configs.KuveraFunds) != 1 || configs.KuveraFunds[0].Symbol != "0P0000XVJD.BO" {
			t.Errorf("Expected stored mapping, got %+v", configs.KuveraFunds)
		}
	})

	t.Run("returns 400 for duplicate fund names", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewConfigHandler(testutil.NewTestConfigService(t, db))

		req := testutil.NewJSONRequest(http.MethodPut, "/api/config",
			`{"kuveraFunds":[{"name":"A","symbol":"A.BO"},{"name":"a","symbol":"B.BO"}]}`, nil)
		w := httptest.NewRecorder()

		handler.UpdateConfigs(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "app_setting", 0)
	})
}
