package service

import "time"

// SetAccountServiceClock replaces the clock of a service built by NewAccountService
func SetAccountServiceClock(s AccountService, now func() time.Time) {
	s.(*accountService).now = now
}

// SetMaintenanceServiceClock replaces the clock of a service built by NewMaintenanceService
func SetMaintenanceServiceClock(s MaintenanceService, now func() time.Time) {
	s.(*maintenanceService).now = now
}
