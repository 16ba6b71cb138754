package store

import (
	"database/sql"
	"time"

	"recondeck/status"
)

// Payment status values as delivered by the dealership sales feed.
const (
	PaymentStatusPending     = "pendiente"
	PaymentStatusUnderReview = "en_estudio"
	PaymentStatusApproved    = "aprobada"
	PaymentStatusPaid        = "pagado"
)

// Payment method values.
const (
	PaymentMethodCash     = "contado"
	PaymentMethodFinanced = "financiado"
)

// VehicleTypeMotorcycle is the type value the feed uses for motorcycles;
// anything else counts as a car.
const VehicleTypeMotorcycle = "Moto"

// Vehicle is a sold vehicle awaiting delivery. PriorityScore is a
// projection recomputed from the other fields and is never persisted.
type Vehicle struct {
	ID           string     `json:"id"`
	LicensePlate string     `json:"license_plate"`
	Model        string     `json:"model"`
	VehicleType  string     `json:"vehicle_type"`
	Brand        string     `json:"brand"`
	VIN          string     `json:"vin"`
	SaleDate     *time.Time `json:"sale_date"`
	Advisor      string     `json:"advisor"`
	AdvisorName  string     `json:"advisor_name"`
	Price        float64    `json:"price"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	DocumentType  string `json:"document_type"`
	ClientDocID   string `json:"client_doc_id"`
	Bank          string `json:"bank"`

	DealershipCode   string `json:"dealership_code"`
	DeliveryCenter   string `json:"delivery_center"`
	ExternalProvider string `json:"external_provider"`
	ORValue          string `json:"or_value"`

	BodyStatus       status.Status `json:"body_status"`
	BodyDate         *time.Time    `json:"body_date"`
	MechanicalStatus status.Status `json:"mechanical_status"`
	MechanicalDate   *time.Time    `json:"mechanical_date"`
	CypStatus        status.Status `json:"cyp_status"`
	CypDate          *time.Time    `json:"cyp_date"`
	Photo360Status   status.Status `json:"photo360_status"`
	Photo360Date     *time.Time    `json:"photo360_date"`

	Validated      bool       `json:"validated"`
	ValidationDate *time.Time `json:"validation_date"`

	PriorityScore int `json:"priority_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProcessState returns the stage and completion time of one process.
func (v *Vehicle) ProcessState(p status.Process) status.ProcessState {
	switch p {
	case status.ProcessBody:
		return status.ProcessState{Status: v.BodyStatus, CompletedAt: v.BodyDate}
	case status.ProcessMechanical:
		return status.ProcessState{Status: v.MechanicalStatus, CompletedAt: v.MechanicalDate}
	case status.ProcessCyP:
		return status.ProcessState{Status: v.CypStatus, CompletedAt: v.CypDate}
	case status.ProcessPhoto360:
		return status.ProcessState{Status: v.Photo360Status, CompletedAt: v.Photo360Date}
	}
	return status.ProcessState{}
}

// SetProcessState writes the stage and completion time of one process.
func (v *Vehicle) SetProcessState(p status.Process, st status.ProcessState) {
	switch p {
	case status.ProcessBody:
		v.BodyStatus, v.BodyDate = st.Status, st.CompletedAt
	case status.ProcessMechanical:
		v.MechanicalStatus, v.MechanicalDate = st.Status, st.CompletedAt
	case status.ProcessCyP:
		v.CypStatus, v.CypDate = st.Status, st.CompletedAt
	case status.ProcessPhoto360:
		v.Photo360Status, v.Photo360Date = st.Status, st.CompletedAt
	}
}

// AnyInProgress reports whether any reconditioning process is actively
// being worked. Such vehicles jump the queue.
func (v *Vehicle) AnyInProgress() bool {
	for _, p := range status.AllProcesses {
		if v.ProcessState(p).Status == status.StatusInProgress {
			return true
		}
	}
	return false
}

// Finished reports delivery readiness: body and photo360 done.
// Mechanical and CyP are deliberately excluded.
func (v *Vehicle) Finished() bool {
	return v.BodyStatus == status.StatusDone && v.Photo360Status == status.StatusDone
}

// IsMotorcycle reports whether the feed classified this unit as a motorcycle.
func (v *Vehicle) IsMotorcycle() bool {
	return v.VehicleType == VehicleTypeMotorcycle
}

const vehicleSelectCols = `id, license_plate, model, vehicle_type, brand, vin, sale_date,
	advisor, advisor_name, price, payment_method, payment_status,
	document_type, client_doc_id, bank, dealership_code,
	delivery_center, external_provider, or_value,
	body_status, body_date, mechanical_status, mechanical_date,
	cyp_status, cyp_date, photo360_status, photo360_date,
	validated, validation_date, created_at, updated_at`

func scanVehicle(row interface {
	Scan(dest ...interface{}) error
}) (*Vehicle, error) {
	v := &Vehicle{}
	var saleDate, bodyDate, mechDate, cypDate, photoDate, validationDate sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&v.ID, &v.LicensePlate, &v.Model, &v.VehicleType, &v.Brand, &v.VIN, &saleDate,
		&v.Advisor, &v.AdvisorName, &v.Price, &v.PaymentMethod, &v.PaymentStatus,
		&v.DocumentType, &v.ClientDocID, &v.Bank, &v.DealershipCode,
		&v.DeliveryCenter, &v.ExternalProvider, &v.ORValue,
		&v.BodyStatus, &bodyDate, &v.MechanicalStatus, &mechDate,
		&v.CypStatus, &cypDate, &v.Photo360Status, &photoDate,
		&v.Validated, &validationDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	v.SaleDate = scanTimePtr(saleDate)
	v.BodyDate = scanTimePtr(bodyDate)
	v.MechanicalDate = scanTimePtr(mechDate)
	v.CypDate = scanTimePtr(cypDate)
	v.Photo360Date = scanTimePtr(photoDate)
	v.ValidationDate = scanTimePtr(validationDate)
	v.CreatedAt = scanTime(createdAt)
	v.UpdatedAt = scanTime(updatedAt)
	return v, nil
}

// ListVehicles returns the full working set of sold vehicles.
func (db *DB) ListVehicles() ([]Vehicle, error) {
	rows, err := db.Query(`SELECT ` + vehicleSelectCols + ` FROM vehicles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

// GetVehicle returns a single vehicle by ID.
func (db *DB) GetVehicle(id string) (*Vehicle, error) {
	return scanVehicle(db.QueryRow(`SELECT `+vehicleSelectCols+` FROM vehicles WHERE id = ?`, id))
}

// CreateVehicle inserts a new sold vehicle record.
func (db *DB) CreateVehicle(v *Vehicle) error {
	_, err := db.Exec(`
		INSERT INTO vehicles (id, license_plate, model, vehicle_type, brand, vin, sale_date,
			advisor, advisor_name, price, payment_method, payment_status,
			document_type, client_doc_id, bank, dealership_code, or_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.LicensePlate, v.Model, v.VehicleType, v.Brand, v.VIN, formatTimePtr(v.SaleDate),
		v.Advisor, v.AdvisorName, v.Price, v.PaymentMethod, v.PaymentStatus,
		v.DocumentType, v.ClientDocID, v.Bank, v.DealershipCode, v.ORValue)
	return err
}

// UpdateProcessStatus writes one process's stage and completion date.
func (db *DB) UpdateProcessStatus(id string, p status.Process, st status.ProcessState) error {
	var col, dateCol string
	switch p {
	case status.ProcessBody:
		col, dateCol = "body_status", "body_date"
	case status.ProcessMechanical:
		col, dateCol = "mechanical_status", "mechanical_date"
	case status.ProcessCyP:
		col, dateCol = "cyp_status", "cyp_date"
	case status.ProcessPhoto360:
		col, dateCol = "photo360_status", "photo360_date"
	default:
		return sql.ErrNoRows
	}
	_, err := db.Exec(`UPDATE vehicles SET `+col+`=?, `+dateCol+`=?, updated_at=datetime('now','localtime') WHERE id=?`,
		string(st.Status), formatTimePtr(st.CompletedAt), id)
	return err
}

// UpdateValidation writes the validation flag and its timestamp.
func (db *DB) UpdateValidation(id string, validated bool, validationDate *time.Time) error {
	_, err := db.Exec(`UPDATE vehicles SET validated=?, validation_date=?, updated_at=datetime('now','localtime') WHERE id=?`,
		validated, formatTimePtr(validationDate), id)
	return err
}

// UpdateDeliveryCenter writes the pre-delivery center and external provider.
func (db *DB) UpdateDeliveryCenter(id, center, externalProvider string) error {
	_, err := db.Exec(`UPDATE vehicles SET delivery_center=?, external_provider=?, updated_at=datetime('now','localtime') WHERE id=?`,
		center, externalProvider, id)
	return err
}

// UpdatePaymentStatus writes the payment status.
func (db *DB) UpdatePaymentStatus(id, paymentStatus string) error {
	_, err := db.Exec(`UPDATE vehicles SET payment_status=?, updated_at=datetime('now','localtime') WHERE id=?`,
		paymentStatus, id)
	return err
}

// UpdatePaymentMethod writes the payment method.
func (db *DB) UpdatePaymentMethod(id, paymentMethod string) error {
	_, err := db.Exec(`UPDATE vehicles SET payment_method=?, updated_at=datetime('now','localtime') WHERE id=?`,
		paymentMethod, id)
	return err
}

// UpdateORValue writes the workshop OR reference.
func (db *DB) UpdateORValue(id, orValue string) error {
	_, err := db.Exec(`UPDATE vehicles SET or_value=?, updated_at=datetime('now','localtime') WHERE id=?`,
		orValue, id)
	return err
}
