package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinor(t *testing.T) {
	assert.Equal(t, int64(1000), ToMinor(10))
	assert.Equal(t, int64(0), ToMinor(0))
}

func TestSumMinor(t *testing.T) {
	assert.Equal(t, int64(3000), SumMinor([]int64{10, 20}))
	assert.Equal(t, int64(0), SumMinor(nil))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "30.00", FormatMinor(3000))
	assert.Equal(t, "12.05", FormatMinor(1205))
	assert.Equal(t, "499.00", FormatMajor(499))
	assert.Equal(t, "₹30.00", Label(3000, "INR"))
	assert.Equal(t, "30.00 USD", Label(3000, "USD"))
}
