package models

import "time"

// InventoryRecord is implemented by every MIS inventory record type.
// Only the types in this file implement it.
type InventoryRecord interface {
	Common() *RecordBase
}

// RecordBase carries the system-managed columns shared by every category table.
// They are never accepted from a submitted form.
type RecordBase struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey;size:36"`
	OwnerID   string    `json:"ownerId" gorm:"column:owner_id;size:36;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (b *RecordBase) Common() *RecordBase { return b }

// PersonalComputer is a deployed workstation.
type PersonalComputer struct {
	RecordBase      `mapstructure:"-"`
	UserFullName    string `json:"user_full_name" gorm:"column:user_full_name;size:255" mapstructure:"user_full_name" label:"User" validate:"required"`
	Building        string `json:"building" gorm:"column:building;size:100" mapstructure:"building" label:"Building"`
	Department      string `json:"department" gorm:"column:department;size:100" mapstructure:"department" label:"Department"`
	IPAddress       string `json:"ip_address" gorm:"column:ip_address;size:45" mapstructure:"ip_address" label:"IP Address" validate:"omitempty,ip"`
	MACAddress      string `json:"mac_address" gorm:"column:mac_address;size:17" mapstructure:"mac_address" label:"MAC Address" validate:"omitempty,mac"`
	OSVersion       string `json:"os_version" gorm:"column:os_version;size:100" mapstructure:"os_version" label:"OS Version"`
	MSOffice        string `json:"ms_office" gorm:"column:ms_office;size:100" mapstructure:"ms_office" label:"MS Office"`
	Kaspersky       string `json:"kaspersky" gorm:"column:kaspersky;size:20" mapstructure:"kaspersky" label:"Kaspersky" validate:"omitempty,oneof='Active' 'Not Active'"`
	Processor       string `json:"processor" gorm:"column:processor;size:100" mapstructure:"processor" label:"Processor"`
	RAM             string `json:"ram" gorm:"column:ram;size:50" mapstructure:"ram" label:"RAM"`
	StorageType     string `json:"storage_type" gorm:"column:storage_type;size:10" mapstructure:"storage_type" label:"Storage Type" validate:"omitempty,oneof=SSD HDD NVMe"`
	StorageCapacity string `json:"storage_capacity" gorm:"column:storage_capacity;size:50" mapstructure:"storage_capacity" label:"Capacity"`
	StorageModel    string `json:"storage_model" gorm:"column:storage_model;size:100" mapstructure:"storage_model" label:"Brand / Model"`
}

func (PersonalComputer) TableName() string { return "mis_personal_computers" }

// ComputerPart is a spare part kept in stock.
type ComputerPart struct {
	RecordBase   `mapstructure:"-"`
	ItemName     string `json:"item_name" gorm:"column:item_name;size:255" mapstructure:"item_name" label:"Part Name" validate:"required"`
	PartID       string `json:"part_id" gorm:"column:part_id;size:50" mapstructure:"part_id" label:"Part ID"`
	HardwareType string `json:"hardware_type" gorm:"column:hardware_type;size:100" mapstructure:"hardware_type" label:"Hardware Type"`
	SerialNumber string `json:"serial_number" gorm:"column:serial_number;size:100" mapstructure:"serial_number" label:"Serial Number"`
	Quantity     int    `json:"quantity" gorm:"column:quantity" mapstructure:"quantity" label:"Stock Quantity" validate:"gte=0"`
	Location     string `json:"location" gorm:"column:location;size:100" mapstructure:"location" label:"Location"`
	Status       string `json:"status" gorm:"column:status;size:50" mapstructure:"status" label:"Status" validate:"required"`
}

func (ComputerPart) TableName() string { return "mis_computer_parts" }

// Document is a license, diagram or key on file.
// It has no table of its own and lives in the shared inventory table.
type Document struct {
	RecordBase   `mapstructure:"-"`
	Title        string `json:"title" gorm:"column:title;size:255" mapstructure:"title" label:"Document Title" validate:"required"`
	DocumentID   string `json:"document_id" gorm:"column:document_id;size:50" mapstructure:"document_id" label:"Doc ID"`
	DocumentType string `json:"document_type" gorm:"column:document_type;size:100" mapstructure:"document_type" label:"Document Type"`
	DateIssued   string `json:"date_issued" gorm:"column:date_issued;size:10" mapstructure:"date_issued" label:"Date Issued" validate:"omitempty,datetime=2006-01-02"`
	Holder       string `json:"holder" gorm:"column:holder;size:255" mapstructure:"holder" label:"Holder / Location"`
}

// Cable is a wire or cable stock entry.
type Cable struct {
	RecordBase `mapstructure:"-"`
	CableType  string `json:"cable_type" gorm:"column:cable_type;size:255" mapstructure:"cable_type" label:"Cable Type" validate:"required"`
	ItemID     string `json:"item_id" gorm:"column:item_id;size:50" mapstructure:"item_id" label:"Item ID"`
	Length     string `json:"length" gorm:"column:length;size:100" mapstructure:"length" label:"Length / Spec"`
	Quantity   int    `json:"quantity" gorm:"column:quantity" mapstructure:"quantity" label:"Stock Quantity" validate:"gte=0"`
	Location   string `json:"location" gorm:"column:location;size:100" mapstructure:"location" label:"Location"`
	Status     string `json:"status" gorm:"column:status;size:50" mapstructure:"status" label:"Status" validate:"required"`
}

func (Cable) TableName() string { return "mis_wires_cables" }
