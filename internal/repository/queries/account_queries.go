package queries

const (
	QueryGetPatient = `
		SELECT id, full_name, avatar_url
		FROM patients
		WHERE id = $1;
	`
	QueryGetClinician = `
		SELECT id, full_name, avatar_url
		FROM clinicians
		WHERE id = $1;
	`
)
