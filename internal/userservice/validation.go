package userservice

import (
	"regexp"
	"unicode/utf8"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	EmailRX     = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	UppercaseRX = regexp.MustCompile("[A-Z]")
	LowercaseRX = regexp.MustCompile("[a-z]")
	NumberRX    = regexp.MustCompile("[0-9]")
)

const (
	msgFullnameLength = "Fullname must be at least 3 letters long"
	msgEmailRequired  = "Enter email"
	msgEmailInvalid   = "Email is invalid"
	msgPasswordPolicy = "Password should be 6 to 20 characters long with a numeric, 1 lowercase and 1 uppercase letter"
)

func validateFullname(v *common.Validator, fullname string) {
	v.Check(utf8.RuneCountInString(fullname) >= 3, "fullname", msgFullnameLength)
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", msgEmailRequired)
	v.Check(EmailRX.MatchString(email), "email", msgEmailInvalid)
}

func validatePassword(v *common.Validator, password string) {
	value := v.CheckStringLength(password, 6, 20) && UppercaseRX.MatchString(password) && LowercaseRX.MatchString(password) && NumberRX.MatchString(password)
	v.Check(value, "password", msgPasswordPolicy)
}
