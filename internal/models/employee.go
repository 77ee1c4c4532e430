package models

// Employee represents an organization member who can submit and approve
// requisitions.
type Employee struct {
	EmployeeID      string `json:"employeeID"`
	Name            string `json:"name"`
	Email           string `json:"email" db:"email"`
	PasswordHash    string `json:"-" db:"password_hash"`
	OrgUnitID       string `json:"orgUnitID"`
	OrgUnitName     string `json:"orgUnitName"`
	SupervisorID    string `json:"supervisorID"`
	SupervisorEmail string `json:"supervisorEmail"`
	Active          bool   `json:"active"`
	AuditFields
}
