package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateTokenRequestValidate(t *testing.T) {
	assert.NoError(t, (&CreateTokenRequest{Points: 1}).Validate())
	assert.Error(t, (&CreateTokenRequest{Points: 0}).Validate())
	assert.Error(t, (&CreateTokenRequest{Points: -5}).Validate())
}

func TestRedeemTokenRequestValidate(t *testing.T) {
	assert.NoError(t, (&RedeemTokenRequest{Token: "AAAABBBBCCCCDDDD"}).Validate())
	assert.Error(t, (&RedeemTokenRequest{Token: ""}).Validate())
	assert.Error(t, (&RedeemTokenRequest{Token: "SHORT"}).Validate())
}
