package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRequiresEveryBit(t *testing.T) {
	mask := PermViewDoctors | PermViewPatients

	assert.True(t, mask.Has(PermViewDoctors))
	assert.True(t, mask.Has(PermViewDoctors|PermViewPatients))
	assert.False(t, mask.Has(PermCreateDoctor))
	assert.False(t, mask.Has(PermViewDoctors|PermCreateDoctor))

	// The zero mask satisfies only the empty requirement.
	assert.True(t, Permission(0).Has(0))
	assert.False(t, Permission(0).Has(PermViewDoctors))
}

func TestAdminHoldsEveryPermission(t *testing.T) {
	admin := PermissionsForRole(RoleAdmin)
	all := []Permission{
		PermViewDoctors, PermCreateDoctor, PermManageDoctor, PermDeleteDoctor,
		PermViewAppointments, PermCreateAppointment, PermManageAppointment, PermCancelAppointment,
		PermViewPatients, PermCreatePatient, PermManagePatient, PermDeletePatient,
		PermViewTreatments, PermCreateTreatment, PermManageTreatment, PermDeleteTreatment,
		PermViewProducts, PermCreateProduct, PermManageProduct, PermDeleteProduct,
		PermViewReports, PermManageUsers,
	}
	for _, p := range all {
		assert.True(t, admin.Has(p))
	}
}

func TestDoctorRoleBoundaries(t *testing.T) {
	doctor := PermissionsForRole(RoleDoctor)

	assert.True(t, doctor.Has(PermViewPatients))
	assert.True(t, doctor.Has(PermCreateAppointment))
	assert.True(t, doctor.Has(PermManageTreatment))

	assert.False(t, doctor.Has(PermDeletePatient))
	assert.False(t, doctor.Has(PermCreateDoctor))
	assert.False(t, doctor.Has(PermManageUsers))
}

func TestPatientRoleBoundaries(t *testing.T) {
	patient := PermissionsForRole(RolePatient)

	assert.True(t, patient.Has(PermViewDoctors))
	assert.True(t, patient.Has(PermViewProducts))
	assert.True(t, patient.Has(PermCancelAppointment))

	assert.False(t, patient.Has(PermViewPatients))
	assert.False(t, patient.Has(PermViewTreatments))
	assert.False(t, patient.Has(PermManageAppointment))
}

func TestUnknownRoleHasNothing(t *testing.T) {
	assert.Equal(t, Permission(0), PermissionsForRole("Receptionist"))
}
