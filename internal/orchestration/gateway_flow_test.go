package orchestration

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
	ccsteertesting "github.com/mbrennan-au/ccsteer/internal/testing"
)

// The lifecycle spec drives two gateways through the whole flow against
// one fake control plane, checking the shared public block is
// provisioned once, shared between them, and released only when its
// last consumer is gone.
var _ = ginkgo.Describe("Gateway lifecycle", ginkgo.Ordered, func() {
	var (
		fake     *cloudcontrol.FakeClient
		rcA, rcB *Context
	)

	ginkgo.BeforeAll(func() {
		fake = cloudcontrol.NewFakeClient()
		fake.SettleAfterReads = 2

		cfgA := ccsteertesting.EnvConfig()
		cfgA.Gateway.Name = "gw-a"
		cfgB := ccsteertesting.EnvConfig()
		cfgB.Gateway.Name = "gw-b"

		rcA = newTestContext(cfgA, fake)
		rcB = newTestContext(cfgB, fake)
	})

	ginkgo.It("converges the first gateway from nothing", func() {
		result, err := EnsureGateway(rcA)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Changed).To(BeTrue())
		Expect(result.AdminPassword).NotTo(BeEmpty())
		Expect(result.PublicIPv4).NotTo(BeEmpty())

		Expect(fake.Servers).To(HaveLen(1))
		Expect(fake.NatRules).To(HaveLen(1))
		Expect(fake.FirewallRules).To(HaveLen(1))
		Expect(fake.Blocks).To(HaveLen(1), "no owned address was free, so a block was provisioned")
	})

	ginkgo.It("changes nothing when run again", func() {
		fake.ResetCalls()
		result, err := EnsureGateway(rcA)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Changed).To(BeFalse())
		Expect(fake.MutationCalls()).To(BeEmpty())
	})

	ginkgo.It("serves a second gateway from the free address of the same block", func() {
		result, err := EnsureGateway(rcB)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Changed).To(BeTrue())

		Expect(fake.Blocks).To(HaveLen(1), "the existing block still had a free address")
		Expect(fake.NatRules).To(HaveLen(2))
		externals := make(map[string]bool)
		for _, rule := range fake.NatRules {
			externals[rule.ExternalIP] = true
		}
		Expect(externals).To(HaveLen(2), "each gateway holds its own external address")
	})

	ginkgo.It("keeps the block while the second gateway still uses it", func() {
		Expect(RemoveGateway(rcA)).To(Succeed())

		Expect(fake.Servers).To(HaveLen(1))
		Expect(fake.NatRules).To(HaveLen(1))
		Expect(fake.FirewallRules).To(HaveLen(1))
		Expect(fake.Blocks).To(HaveLen(1), "gw-b's translation still references the block")
	})

	ginkgo.It("releases the block with the last gateway", func() {
		Expect(RemoveGateway(rcB)).To(Succeed())

		Expect(fake.Servers).To(BeEmpty())
		Expect(fake.NatRules).To(BeEmpty())
		Expect(fake.FirewallRules).To(BeEmpty())
		Expect(fake.Blocks).To(BeEmpty())
	})
})
