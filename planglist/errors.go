package planglist

import (
	"github.com/programme-lv/vjudge/srvcerror"
)

const ErrCodeInvalidProgLang = "invalid_programming_language"

func ErrInvalidProgLang() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidProgLang,
		"unknown programming language id",
	)
}
