package errtext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/saltfishpr/quokka/future"
)

func TestDescribe_KnownCode(t *testing.T) {
	msg := Describe(future.ErrWaitTimeout, language.English)
	assert.Equal(t, "timed out waiting for the future to become ready", msg)

	msg = Describe(future.ErrWaitTimeout, language.Chinese)
	assert.Equal(t, "等待 future 就绪超时", msg)
}

func TestDescribe_FallsBackToFallbackLanguage(t *testing.T) {
	msg := Describe(future.ErrAlreadyRetrieved, language.French)
	assert.Equal(t, "the future for this promise was already retrieved", msg)
}

func TestDescribe_Panic(t *testing.T) {
	err := future.WrapPanic("boom")
	msg := Describe(err, language.English)
	assert.Contains(t, msg, "boom")
}

func TestDescribe_UnknownError(t *testing.T) {
	err := errors.New("something else")
	assert.Equal(t, "something else", Describe(err, language.English))
}

func TestDescribe_Nil(t *testing.T) {
	assert.Equal(t, "", Describe(nil, language.English))
}
