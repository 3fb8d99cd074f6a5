package model

// Permission is a bitmask of independent capabilities. The mask travels as a
// single integer claim inside access tokens and is checked with bitwise AND.
type Permission uint32

const (
	PermViewDoctors Permission = 1 << iota
	PermCreateDoctor
	PermManageDoctor
	PermDeleteDoctor

	PermViewAppointments
	PermCreateAppointment
	PermManageAppointment
	PermCancelAppointment

	PermViewPatients
	PermCreatePatient
	PermManagePatient
	PermDeletePatient

	PermViewTreatments
	PermCreateTreatment
	PermManageTreatment
	PermDeleteTreatment

	PermViewProducts
	PermCreateProduct
	PermManageProduct
	PermDeleteProduct

	PermViewReports
	PermManageUsers
)

// Has reports whether every bit of required is present in p.
func (p Permission) Has(required Permission) bool {
	return p&required == required
}

var rolePermissions = map[Role]Permission{
	RoleAdmin: PermViewDoctors | PermCreateDoctor | PermManageDoctor | PermDeleteDoctor |
		PermViewAppointments | PermCreateAppointment | PermManageAppointment | PermCancelAppointment |
		PermViewPatients | PermCreatePatient | PermManagePatient | PermDeletePatient |
		PermViewTreatments | PermCreateTreatment | PermManageTreatment | PermDeleteTreatment |
		PermViewProducts | PermCreateProduct | PermManageProduct | PermDeleteProduct |
		PermViewReports | PermManageUsers,

	RoleDoctor: PermViewAppointments | PermCreateAppointment | PermManageAppointment | PermCancelAppointment |
		PermViewPatients | PermViewProducts | PermViewTreatments | PermViewDoctors |
		PermCreateTreatment | PermManageTreatment,

	RolePatient: PermViewDoctors | PermViewProducts |
		PermViewAppointments | PermCreateAppointment | PermCancelAppointment,
}

// PermissionsForRole resolves the static role table. Unknown roles get no
// capabilities.
func PermissionsForRole(role Role) Permission {
	return rolePermissions[role]
}
