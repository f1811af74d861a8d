package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/madrasahbd/natija/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"
)

// NewToken asks for a token to be issued.
type NewToken struct {
	Subject  string   `json:"sub"`
	Username string   `json:"username" validate:"required,notblank"`
	Roles    []string `json:"roles" validate:"required,min=1,allroles"`
}

// InitValidators registers the user validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(validate, translator, allRolesTag, allRolesText)
}

func (nt *NewToken) Validate(validate *validator.Validate) error {
	nt.Username = core.CleanString(nt.Username, true)
	nt.Subject = core.CleanString(nt.Subject)
	if nt.Subject == "" {
		nt.Subject = nt.Username
	}
	for i := range nt.Roles {
		nt.Roles[i] = core.CleanString(nt.Roles[i], true)
	}
	return validate.Struct(nt)
}

func (nt NewToken) User() User {
	return User{ID: nt.Subject, Username: nt.Username, Roles: nt.Roles}
}

// Custom Validators

func allRolesValidation(fl validator.FieldLevel) bool {
	if roles, ok := fl.Field().Interface().([]string); ok {
		for _, role := range roles {
			if _, ok := rolePriorities[role]; !ok {
				return false
			}
		}
		return true
	}
	return false
}
