package domain

// Employee is an organization member who may submit requisitions and, when
// holding one of the approval roles, act on them.
type Employee struct {
	EmployeeID      string `json:"employeeID"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	OrgUnitID       string `json:"orgUnitID"`
	OrgUnitName     string `json:"orgUnitName"`
	SupervisorID    string `json:"supervisorID,omitempty"`
	SupervisorEmail string `json:"supervisorEmail,omitempty"`
	PasswordHash    string `json:"-"`
	Active          bool   `json:"active"`
	AuditFields
}
