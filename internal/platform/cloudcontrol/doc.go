// Package cloudcontrol models the slice of the CloudControl API consumed
// by the convergence engine.
//
// The API is asynchronous and eventually consistent: every mutating call
// returns before the resource has settled, and reads may lag behind
// writes. Callers therefore never patch a snapshot in place; they
// re-fetch and re-evaluate until the remote state matches what they
// asked for.
//
// A [Client] is scoped to a single network domain within a datacenter.
// All list operations return the resources of that domain only.
//
// The package defines one small interface per API concern plus the
// combined [Client], the resource snapshot types those interfaces
// return, and the error taxonomy ([APIError], [NotFoundError]) every
// implementation must honor. [FakeClient] is an in-memory
// implementation for tests.
package cloudcontrol
