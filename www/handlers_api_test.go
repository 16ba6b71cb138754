package www

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"recondeck/config"
	"recondeck/engine"
	"recondeck/store"
	"recondeck/vehicles"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client, func()) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	eng := engine.New(engine.Config{
		AppConfig: config.Defaults(),
		DB:        db,
	})
	if err := eng.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}

	handler, stop := NewRouter(eng)
	srv := httptest.NewServer(handler)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	return srv, client, func() {
		srv.Close()
		stop()
		eng.Stop()
		db.Close()
	}
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func putJSON(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", url, err)
	}
	return resp
}

func decodeVehicle(t *testing.T, resp *http.Response) store.Vehicle {
	t.Helper()
	defer resp.Body.Close()
	var v store.Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode vehicle: %v", err)
	}
	return v
}

func TestCreateAdvanceAndQueue(t *testing.T) {
	srv, client, cleanup := newTestServer(t)
	defer cleanup()

	resp := postJSON(t, client, srv.URL+"/api/vehicles", map[string]interface{}{
		"license_plate": "1234ABC",
		"model":         "Ibiza",
		"sale_date":     "2025-06-01",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create vehicle: status %d", resp.StatusCode)
	}
	created := decodeVehicle(t, resp)
	if created.ID == "" {
		t.Fatal("created vehicle has no ID")
	}
	if created.ORValue != "ORT" {
		t.Fatalf("expected default OR value, got %q", created.ORValue)
	}

	resp = postJSON(t, client, srv.URL+"/api/vehicles/"+created.ID+"/process/body", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("advance body: status %d", resp.StatusCode)
	}
	v := decodeVehicle(t, resp)
	if v.BodyStatus != "in_progress" {
		t.Fatalf("expected body in_progress, got %s", v.BodyStatus)
	}

	resp = postJSON(t, client, srv.URL+"/api/vehicles/"+created.ID+"/process/paint", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown process: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := client.Get(srv.URL + "/api/queue?tab=car")
	if err != nil {
		t.Fatalf("GET queue: %v", err)
	}
	defer resp.Body.Close()
	var page vehicles.QueuePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode queue: %v", err)
	}
	if page.TotalItems != 1 || len(page.Vehicles) != 1 {
		t.Fatalf("expected 1 car in queue, got %d/%d", page.TotalItems, len(page.Vehicles))
	}
	if page.Counts.Car != 1 {
		t.Fatalf("expected car count 1, got %d", page.Counts.Car)
	}
}

func TestQueueRejectsUnknownTab(t *testing.T) {
	srv, client, cleanup := newTestServer(t)
	defer cleanup()

	resp, err := client.Get(srv.URL + "/api/queue?tab=bogus")
	if err != nil {
		t.Fatalf("GET queue: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tab, got %d", resp.StatusCode)
	}
}

func TestPaymentStatusRequiresAdmin(t *testing.T) {
	srv, client, cleanup := newTestServer(t)
	defer cleanup()

	resp := postJSON(t, client, srv.URL+"/api/vehicles", map[string]interface{}{
		"license_plate": "5678DEF",
	})
	created := decodeVehicle(t, resp)

	resp = putJSON(t, client, srv.URL+"/api/vehicles/"+created.ID+"/payment-status", map[string]string{"status": "pagado"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without login, got %d", resp.StatusCode)
	}

	// First login bootstraps the admin account.
	resp = postJSON(t, client, srv.URL+"/login", map[string]string{"username": "admin", "password": "secret"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}

	resp = putJSON(t, client, srv.URL+"/api/vehicles/"+created.ID+"/payment-status", map[string]string{"status": "pagado"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("payment status after login: status %d", resp.StatusCode)
	}
	v := decodeVehicle(t, resp)
	if v.PaymentStatus != "pagado" {
		t.Fatalf("expected pagado, got %q", v.PaymentStatus)
	}

	resp = putJSON(t, client, srv.URL+"/api/vehicles/"+created.ID+"/payment-status", map[string]string{"status": "bogus"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payment status, got %d", resp.StatusCode)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv, client, cleanup := newTestServer(t)
	defer cleanup()

	resp := postJSON(t, client, srv.URL+"/api/vehicles", map[string]interface{}{
		"license_plate": "9012GHI",
	})
	created := decodeVehicle(t, resp)

	resp = postJSON(t, client, srv.URL+"/api/vehicles/"+created.ID+"/validate", nil)
	v := decodeVehicle(t, resp)
	if !v.Validated || v.ValidationDate == nil {
		t.Fatal("expected vehicle validated with a stamp")
	}
	if v.PriorityScore < 1000 {
		t.Fatalf("validated vehicle should outrank every unvalidated one, score=%d", v.PriorityScore)
	}
}
