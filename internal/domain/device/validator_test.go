package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateName("laptop"))
	assert.NoError(t, v.ValidateName("work-pc.home_1"))

	assert.Error(t, v.ValidateName("ab"))
	assert.Error(t, v.ValidateName("with spaces"))
	assert.Error(t, v.ValidateName("emoji😀"))
	assert.Error(t, v.ValidateName("waaaaaaaaaaaaaaaaaaaaaaaaaaaytoolong"))
}

func TestValidateRegister(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateRegister("laptop", "longenough"))
	assert.Error(t, v.ValidateRegister("laptop", "short"))
	assert.Error(t, v.ValidateRegister("x", "longenough"))
}
