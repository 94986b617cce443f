package accounts

// Column allow-lists for the split account/profile update. Keys outside these
// lists are ignored; password, email and id are never writable here.
var (
	selfAccountFields = []string{"phone", "cpf", "address", "questionnaire_completed", "has_risk"}
	selfProfileFields = []string{"full_name", "avatar_url", "gender"}

	adminAccountFields = append([]string{"user_type", "plan_status", "is_blocked", "condominium_id"}, selfAccountFields...)
	adminProfileFields = append([]string{"role"}, selfProfileFields...)

	boolFlagFields = map[string]struct{}{
		"questionnaire_completed": {},
		"has_risk":                {},
		"is_blocked":              {},
	}
)

type fieldSet struct {
	account []string
	profile []string
}

func fieldsFor(admin bool) fieldSet {
	if admin {
		return fieldSet{account: adminAccountFields, profile: adminProfileFields}
	}
	return fieldSet{account: selfAccountFields, profile: selfProfileFields}
}
