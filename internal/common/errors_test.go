package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("upload: %w", ErrInvalidInput), CodeInvalidInput},
		{fmt.Errorf("provider %q: %w", "x", ErrUnsupportedFormat), CodeUnsupportedFormat},
		{WrapError(ErrExtraction, "open pdf"), CodeExtraction},
		{ErrNotFound, CodeNotFound},
		{errors.New("boom"), CodeInternal},
		{NewAppError(CodeNotFound, "gone", nil), CodeNotFound},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CodeOf(c.err), c.err.Error())
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError(CodeExtraction, "read pdf", ErrExtraction)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Equal(t, "EXTRACTION_FAILURE: read pdf: text extraction failed", err.Error())
	assert.Nil(t, WrapError(nil, "noop"))
}
