package domain

import "strings"

type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
)

// Participant — идентификатор аккаунта с тегом типа (пациент или врач).
// Не хранится отдельно; выводится резолвером из двух раздельных хранилищ.
type Participant struct {
	ID   string
	Role Role
}

// Account — участник вместе с display-атрибутами.
// Display-атрибуты актуальны на момент чтения, а не на момент отправки.
type Account struct {
	ID          string
	Role        Role
	DisplayName *string
	AvatarURL   *string
}

func (a *Account) Participant() Participant {
	return Participant{ID: a.ID, Role: a.Role}
}

func ValidRole(r Role) bool {
	return r == RolePatient || r == RoleClinician
}

func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
