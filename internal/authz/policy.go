// Package authz holds the row-level visibility rules applied to appointment
// queries. Roles are restricted declaratively by (role, owner-field) pairs
// rather than ad hoc conditionals in each handler.
package authz

import (
	"errors"

	"healthcare-appointment-service/internal/auth"
	"healthcare-appointment-service/internal/models"
)

// OwnerKind names the resource field a listing is scoped by.
type OwnerKind string

const (
	OwnerPatient  OwnerKind = "patient"
	OwnerDoctor   OwnerKind = "doctor"
	OwnerFacility OwnerKind = "facility"
)

// ErrForbidden is returned when the caller may not read the requested
// records. It is distinct from not-found.
var ErrForbidden = errors.New("caller may not access this resource")

// ownershipRules maps a caller role to the owner kind it is restricted to.
// Roles absent from the map read every record their routes expose.
var ownershipRules = map[models.Role]OwnerKind{
	models.RolePatient: OwnerPatient,
	models.RoleDoctor:  OwnerDoctor,
}

// CanRead reports whether the caller may read records owned by ownerID.
// A restricted role may only read records it owns: a PATIENT caller must
// match the patient_id being queried, a DOCTOR caller the doctor_id.
func CanRead(caller auth.Identity, owner OwnerKind, ownerID string) error {
	kind, restricted := ownershipRules[caller.Role]
	if !restricted || kind != owner {
		return nil
	}
	if caller.Username == ownerID {
		return nil
	}
	return ErrForbidden
}
