package cloudcontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIPBlock_Addresses(t *testing.T) {
	t.Parallel()

	b := PublicIPBlock{ID: "block-1", BaseIP: "203.0.113.8", Size: 2}
	addrs, err := b.Addresses()
	assert.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.8", "203.0.113.9"}, addrs)
}

func TestPublicIPBlock_AddressesCrossOctet(t *testing.T) {
	t.Parallel()

	b := PublicIPBlock{ID: "block-2", BaseIP: "203.0.113.255", Size: 2}
	addrs, err := b.Addresses()
	assert.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.255", "203.0.114.0"}, addrs)
}

func TestPublicIPBlock_AddressesInvalidBase(t *testing.T) {
	t.Parallel()

	b := PublicIPBlock{ID: "block-3", BaseIP: "not-an-ip", Size: 2}
	_, err := b.Addresses()
	assert.Error(t, err)
}

func TestResourceRef_String(t *testing.T) {
	t.Parallel()

	ref := ResourceRef{Kind: KindNatRule, ID: "nat-7"}
	assert.Equal(t, "natRule/nat-7", ref.String())
}
