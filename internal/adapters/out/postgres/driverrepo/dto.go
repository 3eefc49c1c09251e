// Package driverrepo persists the driver registry with GORM.
package driverrepo

import (
	"ordering/internal/core/domain/model/driver"
)

// DriverDTO is the drivers row.
type DriverDTO struct {
	ID     string `gorm:"type:varchar(64);primaryKey"`
	Name   string
	Active bool
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	return DriverDTO{ID: d.ID(), Name: d.Name(), Active: d.IsActive()}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	return driver.RestoreDriver(dto.ID, dto.Name, dto.Active)
}
