package mapping

import (
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
)

// ToModelEmployee converts a domain Employee to a model Employee
func ToModelEmployee(d domain.Employee) models.Employee {
	return models.Employee{
		EmployeeID:      d.EmployeeID,
		Name:            d.Name,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		OrgUnitID:       d.OrgUnitID,
		OrgUnitName:     d.OrgUnitName,
		SupervisorID:    d.SupervisorID,
		SupervisorEmail: d.SupervisorEmail,
		Active:          d.Active,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmployee converts a model Employee to a domain Employee
func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		EmployeeID:      m.EmployeeID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		OrgUnitID:       m.OrgUnitID,
		OrgUnitName:     m.OrgUnitName,
		SupervisorID:    m.SupervisorID,
		SupervisorEmail: m.SupervisorEmail,
		Active:          m.Active,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEmployeeSlice converts a slice of model Employees to domain Employees
func ToDomainEmployeeSlice(ms []models.Employee) []domain.Employee {
	ds := make([]domain.Employee, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEmployee(m)
	}
	return ds
}
