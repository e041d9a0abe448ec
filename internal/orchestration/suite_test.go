package orchestration

import (
	"testing"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestOrchestrationSuite is the entry point for the Ginkgo behavior
// specs in this package; the table-driven units run as plain go tests.
func TestOrchestrationSuite(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Orchestration Suite")
}
