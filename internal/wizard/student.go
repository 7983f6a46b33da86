package wizard

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StudentForm carries the raw step 3 inputs.
type StudentForm struct {
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName" validate:"required"`
	BirthMonth string `json:"birthMonth" validate:"required"`
	BirthDay   string `json:"birthDay" validate:"required"`
	BirthYear  string `json:"birthYear" validate:"required"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Trimmed returns a copy with surrounding whitespace removed from every input.
func (f StudentForm) Trimmed() StudentForm {
	return StudentForm{
		FirstName:  strings.TrimSpace(f.FirstName),
		MiddleName: strings.TrimSpace(f.MiddleName),
		LastName:   strings.TrimSpace(f.LastName),
		BirthMonth: strings.TrimSpace(f.BirthMonth),
		BirthDay:   strings.TrimSpace(f.BirthDay),
		BirthYear:  strings.TrimSpace(f.BirthYear),
	}
}

// missingFields returns the JSON names of required inputs left empty.
func (f StudentForm) missingFields() ([]string, error) {
	err := formValidator.Struct(f)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing, nil
}

// BirthDate formats the birth inputs as MM/DD/YYYY. Month and day are
// left-padded with zeros to two characters; nothing is range-checked.
func (f StudentForm) BirthDate() string {
	return padLeft(f.BirthMonth, 2, '0') + "/" + padLeft(f.BirthDay, 2, '0') + "/" + f.BirthYear
}

func padLeft(s string, width int, pad rune) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(string(pad), width-n) + s
}
