package models

// TankReading is a point-in-time reading of a chemical storage tank.
type TankReading struct {
	ID        string `json:"id"`
	Product   string `json:"product"`
	Grade     string `json:"grade"`
	TankLevel int    `json:"tankLevel"` // percentage
	Volume    string `json:"volume"`
	Status    string `json:"status"` // Normal, Warning, Critical
	Pressure  string `json:"pressure"`
}

// Shipment is an outbound logistics run.
type Shipment struct {
	ID          string `json:"id"`
	Destination string `json:"destination"`
	Cargo       string `json:"cargo"`
	Status      string `json:"status"` // In Transit, Loading, Scheduled
	ETA         string `json:"eta"`
}

// Tank statuses
const (
	TankNormal   = "Normal"
	TankWarning  = "Warning"
	TankCritical = "Critical"
)

// TankFarm is the plant telemetry shown on the operations dashboard.
// There is no live feed yet; these are the reference readings.
var TankFarm = []TankReading{
	{ID: "TK-101", Product: "Caustic Soda (NaOH)", Grade: "Membrane Grade 50%", TankLevel: 85, Volume: "12,450 L", Status: TankNormal, Pressure: "120 kPa"},
	{ID: "TK-102", Product: "Hydrochloric Acid (HCl)", Grade: "Industrial 32%", TankLevel: 42, Volume: "5,200 L", Status: TankNormal, Pressure: "105 kPa"},
	{ID: "TK-103", Product: "Liquid Chlorine (Cl₂)", Grade: "99.5% Min", TankLevel: 92, Volume: "8,100 kg", Status: TankWarning, Pressure: "850 kPa"},
	{ID: "TK-104", Product: "Sodium Hypochlorite", Grade: "Standard", TankLevel: 24, Volume: "2,400 L", Status: TankNormal, Pressure: "110 kPa"},
}

// Shipments is the current logistics schedule.
var Shipments = []Shipment{
	{ID: "SHP-2026-001", Destination: "Batangas Depot", Cargo: "Caustic Soda (Bulk)", Status: "In Transit", ETA: "Feb 18, 18:00"},
	{ID: "SHP-2026-002", Destination: "Cebu Office", Cargo: "Chlorine Cylinders", Status: "Loading", ETA: "Feb 19, 08:00"},
	{ID: "SHP-2026-003", Destination: "Manila North Harbor", Cargo: "Hydrochloric Acid", Status: "Scheduled", ETA: "Feb 21, 12:00"},
}
