// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// port interfaces. The mocks are generated using go:generate directives and
// provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	realm := mocks.NewMockCredentialRealm(ctrl)
//	realm.EXPECT().FindCredentialRecord(gomock.Any(), "alice").Return(record, nil)
package mocks

// Generate mock for CredentialRealm interface from internal/ports.
// This creates MockCredentialRealm with FindCredentialRecord.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_realm_mock.go github.com/company/orderhandler-ui/internal/ports CredentialRealm
