package fins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandDispatchUnknownCode(t *testing.T) {
	e := &Engine{chain: newInterceptorChain()}
	_, err := e.Command("9999", nil, CallOptions{})
	assert.IsType(t, InvalidParameterError{}, err)
}

func TestCommandDispatchMissingParameter(t *testing.T) {
	e := &Engine{chain: newInterceptorChain()}
	_, err := e.Command(CommandMemoryAreaRead.Hex(), map[string]interface{}{}, CallOptions{})
	assert.IsType(t, InvalidParameterError{}, err)
}

func TestCommandDispatchBadAddress(t *testing.T) {
	e := &Engine{chain: newInterceptorChain()}
	params := map[string]interface{}{"address": "???", "count": 1}
	_, err := e.Command(CommandMemoryAreaRead.Hex(), params, CallOptions{})
	assert.IsType(t, InvalidAddressError{}, err)
}

func TestBuildReadParamsAcceptsIntCount(t *testing.T) {
	body, req, err := buildReadParams(map[string]interface{}{"address": "D0", "count": 3}, FamilyCS)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint16(3), req.Count)
	assert.Equal([]byte{0x82, 0x00, 0x00, 0x00, 0x00, 0x03}, body)
}
