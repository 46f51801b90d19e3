package planglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgrammingLanguageById(t *testing.T) {
	lang, err := GetProgrammingLanguageById("cpp17")
	require.NoError(t, err)
	assert.Equal(t, "54", lang.ProgramTypeID)
	assert.Equal(t, "//", lang.CommentStart)
	assert.Empty(t, lang.CommentEnd)
}

func TestGetProgrammingLanguageByIdUnknown(t *testing.T) {
	_, err := GetProgrammingLanguageById("cobol")
	require.Error(t, err)
	ec, ok := err.(interface{ ErrorCode() string })
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidProgLang, ec.ErrorCode())
}

func TestEveryLanguageHasProgramType(t *testing.T) {
	for _, lang := range ListProgrammingLanguages() {
		assert.NotEmpty(t, lang.ProgramTypeID, "lang %s", lang.ID)
		assert.NotEmpty(t, lang.FullName, "lang %s", lang.ID)
	}
}

func TestListReturnsCopy(t *testing.T) {
	first := ListProgrammingLanguages()
	first[0].ProgramTypeID = "mutated"
	second := ListProgrammingLanguages()
	assert.NotEqual(t, "mutated", second[0].ProgramTypeID)
}
