package fins

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainInterceptorsOrder(t *testing.T) {
	var order []string
	mk := func(name string) Interceptor {
		return func(info *InterceptorInfo, invoker Invoker) (interface{}, error) {
			order = append(order, name+":before")
			r, err := invoker()
			order = append(order, name+":after")
			return r, err
		}
	}

	chain := ChainInterceptors(mk("a"), mk("b"))
	_, err := chain(&InterceptorInfo{}, func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"a:before", "b:before", "b:after", "a:after"}, order)
}

func TestChainInterceptorsShortCircuit(t *testing.T) {
	boom := errors.New("boom")
	blocker := func(info *InterceptorInfo, invoker Invoker) (interface{}, error) {
		return nil, boom
	}
	called := false
	passthrough := func(info *InterceptorInfo, invoker Invoker) (interface{}, error) {
		called = true
		return invoker()
	}

	chain := ChainInterceptors(blocker, passthrough)
	_, err := chain(&InterceptorInfo{}, func() (interface{}, error) { return "unreached", nil })
	assert.Equal(t, boom, err)
	assert.False(t, called)
}

func TestInterceptorChainInvokeEmpty(t *testing.T) {
	c := newInterceptorChain()
	result, err := c.invoke(&InterceptorInfo{}, func() (interface{}, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestMetricsCollectorRecordsCallsAndErrors(t *testing.T) {
	m := NewMetricsCollector()
	boom := errors.New("boom")

	chain := m.Interceptor()
	_, _ = chain(&InterceptorInfo{Operation: CommandMemoryAreaRead}, func() (interface{}, error) { return nil, nil })
	_, _ = chain(&InterceptorInfo{Operation: CommandMemoryAreaRead}, func() (interface{}, error) { return nil, boom })

	count, errs, _ := m.GetStats(CommandMemoryAreaRead)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(1), errs)
}
