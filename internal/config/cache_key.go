package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// EmployeeSessionKey returns the cache key for an employee's login session.
func (r *CacheKeyStruct) EmployeeSessionKey(employeeID int) string {
	return fmt.Sprintf("login:%d", employeeID)
}

// RolesKey returns the cache key for the approval role reference list.
func (r *CacheKeyStruct) RolesKey() string {
	return "reference:roles"
}

// PaymentStatusesKey returns the cache key for the payment status reference list.
func (r *CacheKeyStruct) PaymentStatusesKey() string {
	return "reference:payment_statuses"
}

// InvoiceTypesKey returns the cache key for the invoice type reference list.
func (r *CacheKeyStruct) InvoiceTypesKey() string {
	return "reference:invoice_types"
}

var CacheKey = NewCacheKeyStruct()
