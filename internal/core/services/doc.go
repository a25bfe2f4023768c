// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): the ingestion pipeline, similarity
// retrieval, the assistant session state machine and the audit pass.
//
// Services are pure Go with no CGO; infrastructure stays behind ports.
package services
