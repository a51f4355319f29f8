// Package framework runs harness scenarios outside of go test.
//
// Context implements the assertion interface used by testify (Errorf and FailNow), so
// scenarios written for *testing.T run unchanged. FailNow panics and the panic is
// recovered by Context.Run, which records the failure and moves on to the next test.
package framework
