package models

// Employee is a row of the HR employee directory ('hr_employees').
type Employee struct {
	EmployeeNo string `json:"id" gorm:"column:employee_no;primaryKey;size:32"`
	Name       string `json:"name" gorm:"column:name;size:255;index"`
	Department string `json:"dept" gorm:"column:department;size:100"`
	Position   string `json:"position" gorm:"column:position;size:100"`
	Email      string `json:"email" gorm:"column:email;size:255"`
	Status     string `json:"status" gorm:"column:status;size:32"` // Active, On Leave, Probation
	Joined     string `json:"joined" gorm:"column:joined;size:32"`
}

func (Employee) TableName() string { return "hr_employees" }

// Employee statuses
const (
	EmployeeActive    = "Active"
	EmployeeOnLeave   = "On Leave"
	EmployeeProbation = "Probation"
)

// SeedEmployees is the initial directory loaded by 'migrate --seed'.
var SeedEmployees = []Employee{
	{EmployeeNo: "MVC-2024-001", Name: "Juan Dela Cruz", Department: "Operations", Position: "Plant Supervisor", Email: "j.delacruz@mvc.com.ph", Status: EmployeeActive, Joined: "Jan 2024"},
	{EmployeeNo: "MVC-2024-042", Name: "Maria Santos", Department: "Engineering", Position: "Senior Engineer", Email: "m.santos@mvc.com.ph", Status: EmployeeActive, Joined: "Mar 2024"},
	{EmployeeNo: "MVC-2025-012", Name: "Rico Blanco", Department: "Finance", Position: "Accountant", Email: "r.blanco@mvc.com.ph", Status: EmployeeOnLeave, Joined: "Jan 2025"},
	{EmployeeNo: "MVC-2023-088", Name: "Ely Buendia", Department: "MIS", Position: "IT Support", Email: "e.buendia@mvc.com.ph", Status: EmployeeActive, Joined: "Nov 2023"},
	{EmployeeNo: "MVC-2025-005", Name: "Liza Soberano", Department: "HR Dept.", Position: "HR Assistant", Email: "l.soberano@mvc.com.ph", Status: EmployeeProbation, Joined: "Feb 2026"},
}
