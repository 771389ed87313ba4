package domain

import (
	"github.com/google/uuid"

	dErrors "kitahub/pkg/domain-errors"
)

// Typed IDs keep aggregate references from different bounded contexts from
// being mixed up at compile time. Construct via the Parse helpers at trust
// boundaries; direct casting bypasses validation.
type (
	TenantID     uuid.UUID
	ChildID      uuid.UUID
	GuardianID   uuid.UUID
	StaffID      uuid.UUID
	ProgramID    uuid.UUID
	EnrollmentID uuid.UUID
	ConsentID    uuid.UUID
)

func (id TenantID) String() string     { return uuid.UUID(id).String() }
func (id ChildID) String() string      { return uuid.UUID(id).String() }
func (id GuardianID) String() string   { return uuid.UUID(id).String() }
func (id StaffID) String() string      { return uuid.UUID(id).String() }
func (id ProgramID) String() string    { return uuid.UUID(id).String() }
func (id EnrollmentID) String() string { return uuid.UUID(id).String() }
func (id ConsentID) String() string    { return uuid.UUID(id).String() }

func (id TenantID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ChildID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id GuardianID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id StaffID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ProgramID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id EnrollmentID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ConsentID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }

// The IDs implement encoding.TextMarshaler/TextUnmarshaler so they travel
// as canonical UUID strings in JSON rather than raw byte arrays.
func (id TenantID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ChildID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id GuardianID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id StaffID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id ProgramID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id EnrollmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ConsentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *TenantID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	if err != nil {
		return err
	}
	*id = TenantID(u)
	return nil
}

func (id *ChildID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	if err != nil {
		return err
	}
	*id = ChildID(u)
	return nil
}

func (id *GuardianID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	if err != nil {
		return err
	}
	*id = GuardianID(u)
	return nil
}

func (id *StaffID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	if err != nil {
		return err
	}
	*id = StaffID(u)
	return nil
}

func (id *ProgramID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	if err != nil {
		return err
	}
	*id = ProgramID(u)
	return nil
}

func (id *EnrollmentID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	if err != nil {
		return err
	}
	*id = EnrollmentID(u)
	return nil
}

func (id *ConsentID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	if err != nil {
		return err
	}
	*id = ConsentID(u)
	return nil
}

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs.
func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s)
	return TenantID(u), err
}

func ParseChildID(s string) (ChildID, error) {
	u, err := parseUUID(s)
	return ChildID(u), err
}

func ParseGuardianID(s string) (GuardianID, error) {
	u, err := parseUUID(s)
	return GuardianID(u), err
}

func ParseStaffID(s string) (StaffID, error) {
	u, err := parseUUID(s)
	return StaffID(u), err
}

func ParseProgramID(s string) (ProgramID, error) {
	u, err := parseUUID(s)
	return ProgramID(u), err
}

func ParseEnrollmentID(s string) (EnrollmentID, error) {
	u, err := parseUUID(s)
	return EnrollmentID(u), err
}

func ParseConsentID(s string) (ConsentID, error) {
	u, err := parseUUID(s)
	return ConsentID(u), err
}
