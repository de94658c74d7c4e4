package common

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad test literal %s", s)
	return n
}

func TestWeiToEther(t *testing.T) {
	tests := []struct {
		wei  string
		want string
	}{
		{"1500000000000000000", "1.5"},
		{"1000000000000000000", "1"},
		{"0", "0"},
		{"1", "0.000000000000000001"},
		{"123456789012345678901234", "123456.789012345678901234"},
		{"100000000000000000", "0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.wei, func(t *testing.T) {
			assert.Equal(t, tt.want, WeiToEther(mustBig(t, tt.wei)))
		})
	}
}

func TestWeiToEther_Nil(t *testing.T) {
	assert.Equal(t, "0", WeiToEther(nil))
}

func TestFormatUnits_Negative(t *testing.T) {
	assert.Equal(t, "-0.5", FormatUnits(big.NewInt(-5), 1))
}

func TestWeiToGwei(t *testing.T) {
	assert.Equal(t, "30.5", WeiToGwei(big.NewInt(30_500_000_000)))
}

func TestEtherToWei(t *testing.T) {
	tests := []struct {
		ether string
		want  string
	}{
		{"0.1", "100000000000000000"},
		{"1.5", "1500000000000000000"},
		{"2", "2000000000000000000"},
		{" 0.000000000000000001 ", "1"},
		{".5", "500000000000000000"},
		{"0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.ether, func(t *testing.T) {
			got, err := EtherToWei(tt.ether)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEtherToWei_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "-1", "+1", ".", "0.0000000000000000001", "1e18"} {
		t.Run(in, func(t *testing.T) {
			_, err := EtherToWei(in)
			assert.Error(t, err)
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"0.024981836", "1", "42.000000001"} {
		n, err := ParseUnits(s, 9)
		require.NoError(t, err)
		assert.Equal(t, s, FormatUnits(n, 9))
	}
}

func TestAddressQR(t *testing.T) {
	png, err := AddressQR("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output should be a PNG")

	_, err = AddressQR("", 0)
	assert.Error(t, err)
}
