// Package mocks provides mock implementations of the backend ports for service tests.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockBackend(ctrl)
//	api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(model.LoginResult{AccessToken: "t"}, nil)
package mocks

// Generate mocks for the Backend and ResourceProvider interfaces from internal/ports.
// Backend covers Login, Me, ChangePassword, UpdateProfile and the dashboard fetches;
// ResourceProvider covers List, Get, Create, Update, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/esm-labs/paddock/internal/ports Backend,ResourceProvider
