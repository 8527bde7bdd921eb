package ports

// Intake is a long-running listener feeding messages into the triage
// pipeline
type Intake interface {
	// Start begins accepting messages
	Start() error

	// Stop shuts the listener down
	Stop() error
}
