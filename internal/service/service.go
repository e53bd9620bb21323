// Package service holds the business rules of the API. Handlers call
// services; services call repositories and external collaborators through
// interfaces, so each can be tested with in-memory fakes.
package service
