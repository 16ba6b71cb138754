package www

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"recondeck/queue"
	"recondeck/status"
	"recondeck/store"
	"recondeck/vehicles"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeMutationError maps engine errors onto HTTP statuses. A rejected
// value is the client's fault; a failed write is ours, and by the time
// it surfaces the queue has already been rolled back.
func writeMutationError(w http.ResponseWriter, err error) {
	var valErr vehicles.ValidationError
	var persErr *vehicles.PersistenceError
	switch {
	case errors.Is(err, vehicles.ErrNotFound):
		writeError(w, http.StatusNotFound, "vehicle not found")
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	case errors.As(err, &persErr):
		writeError(w, http.StatusInternalServerError, persErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// parseDay accepts YYYY-MM-DD dates from the filter bar.
func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return &t, nil
}

// --- Queue ---

func (h *Handlers) apiQueue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := queue.Category(q.Get("tab"))
	if category == "" {
		category = queue.CategoryAll
	}
	if !queue.ValidCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown tab "+string(category))
		return
	}

	from, err := parseDay(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDay(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if to != nil {
		// The bound is a day, so keep the whole day inside the window.
		end := to.Add(24*time.Hour - time.Second)
		to = &end
	}

	page := 1
	if s := q.Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			page = n
		}
	}
	pageSize := h.engine.AppConfig().Web.PageSize
	if s := q.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			pageSize = n
		}
	}

	result := h.engine.VehicleManager().Queue(category, q.Get("q"), queue.DateRange{From: from, To: to}, pageSize, page)
	writeJSON(w, result)
}

// --- Vehicle reads ---

func (h *Handlers) apiGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.VehicleManager().Get(chi.URLParam(r, "id"))
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, v)
}

func (h *Handlers) apiVehicleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.engine.VehicleManager().Get(id); err != nil {
		writeMutationError(w, err)
		return
	}
	hist, err := h.engine.DB().ListStatusHistory(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, hist)
}

// --- Vehicle mutations ---

func (h *Handlers) apiCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LicensePlate   string  `json:"license_plate"`
		Model          string  `json:"model"`
		VehicleType    string  `json:"vehicle_type"`
		Brand          string  `json:"brand"`
		VIN            string  `json:"vin"`
		SaleDate       string  `json:"sale_date"`
		Advisor        string  `json:"advisor"`
		AdvisorName    string  `json:"advisor_name"`
		Price          float64 `json:"price"`
		PaymentMethod  string  `json:"payment_method"`
		PaymentStatus  string  `json:"payment_status"`
		DocumentType   string  `json:"document_type"`
		ClientDocID    string  `json:"client_doc_id"`
		Bank           string  `json:"bank"`
		DealershipCode string  `json:"dealership_code"`
		DeliveryCenter string  `json:"delivery_center"`
		ORValue        string  `json:"or_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.LicensePlate == "" {
		writeError(w, http.StatusBadRequest, "license_plate is required")
		return
	}

	saleDate, err := parseDay(req.SaleDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := &store.Vehicle{
		LicensePlate:   req.LicensePlate,
		Model:          req.Model,
		VehicleType:    req.VehicleType,
		Brand:          req.Brand,
		VIN:            req.VIN,
		SaleDate:       saleDate,
		Advisor:        req.Advisor,
		AdvisorName:    req.AdvisorName,
		Price:          req.Price,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  req.PaymentStatus,
		DocumentType:   req.DocumentType,
		ClientDocID:    req.ClientDocID,
		Bank:           req.Bank,
		DealershipCode: req.DealershipCode,
		DeliveryCenter: req.DeliveryCenter,
		ORValue:        req.ORValue,
	}

	created, err := h.engine.VehicleManager().Create(v)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, created)
}

func (h *Handlers) apiAdvanceProcess(w http.ResponseWriter, r *http.Request) {
	p, err := status.ParseProcess(chi.URLParam(r, "process"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.applyMutation(w, r, &vehicles.AdvanceProcess{Process: p})
}

func (h *Handlers) apiToggleValidation(w http.ResponseWriter, r *http.Request) {
	h.applyMutation(w, r, &vehicles.ToggleValidation{})
}

func (h *Handlers) apiSetDeliveryCenter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Center           string `json:"center"`
		ExternalProvider string `json:"external_provider"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.applyMutation(w, r, &vehicles.SetDeliveryCenter{Center: req.Center, ExternalProvider: req.ExternalProvider})
}

func (h *Handlers) apiSetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.applyMutation(w, r, &vehicles.SetPaymentStatus{Status: req.Status})
}

func (h *Handlers) apiSetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.applyMutation(w, r, &vehicles.SetPaymentMethod{Method: req.Method})
}

func (h *Handlers) apiSetORValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.applyMutation(w, r, &vehicles.SetORValue{Value: req.Value})
}

func (h *Handlers) applyMutation(w http.ResponseWriter, r *http.Request, mut vehicles.Mutation) {
	v, err := h.engine.VehicleManager().Apply(chi.URLParam(r, "id"), mut)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, v)
}

// --- Auth ---

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	db := h.engine.DB()

	// First login ever bootstraps the admin account.
	exists, _ := db.AdminUserExists()
	if !exists {
		hash, err := hashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := db.CreateAdminUser(req.Username, hash); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create admin user")
			return
		}
	} else {
		user, err := db.GetAdminUser(req.Username)
		if err != nil || !verifyPassword(req.Password, user.PasswordHash) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
	}

	if err := db.RecordAdminLogin(req.Username); err != nil {
		h.engine.Debugf("record admin login: %v", err)
	}
	h.auth.signIn(w, r, req.Username)
	writeJSON(w, map[string]string{"status": "ok", "username": req.Username})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.signOut(w, r)
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handlers) apiChangePassword(w http.ResponseWriter, r *http.Request) {
	username, ok := h.auth.admin(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.engine.DB().GetAdminUser(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "user not found")
		return
	}

	if !verifyPassword(req.OldPassword, user.PasswordHash) {
		writeError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := h.engine.DB().UpdateAdminPassword(username, hash); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to update password: %v", err))
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
