package validate_test

import (
	"testing"

	"github.com/Astemirdum/bookcase/pkg/validate"
	"github.com/stretchr/testify/require"
)

func TestCustomValidator(t *testing.T) {
	type req struct {
		Username string `validate:"required,max=150"`
		Email    string `validate:"omitempty,email"`
	}
	v := validate.NewCustomValidator()
	require.NoError(t, v.Validate(req{Username: "reader"}))
	require.Error(t, v.Validate(req{}))
	require.Error(t, v.Validate(req{Username: "reader", Email: "nope"}))
}
