package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonInteractive_AllPromptsFail(t *testing.T) {
	p := NonInteractive{}

	_, err := p.Text("source", "/data")
	assert.ErrorIs(t, err, ErrNonInteractive)

	_, err = p.Password("archive password")
	assert.ErrorIs(t, err, ErrNonInteractive)

	_, err = p.Confirm("continue?", true)
	assert.ErrorIs(t, err, ErrNonInteractive)

	_, err = p.Select("choose", []string{"a", "b"})
	assert.ErrorIs(t, err, ErrNonInteractive)
}
