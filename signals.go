package invz

import "github.com/zoobzio/capitan"

// Signal definitions for structural pipeline events.
// Signals follow the pattern: <component-type>.<event>.
var (
	SignalTaskCompiled = capitan.NewSignal(
		"task.compiled",
		"A pipeline description was compiled into an immutable Task",
	)
	SignalComponentReuseRejected = capitan.NewSignal(
		"component.reuse-rejected",
		"A consumed Component or ComponentList was used again and the attempt was rejected",
	)
	SignalInverseDegenerate = capitan.NewSignal(
		"task.inverse-degenerate",
		"A Task with no registered inverses was compiled; its inverse is the overall identity",
	)
)

// Common field keys using capitan primitive types.
var (
	FieldName      = capitan.NewStringKey("name")       // Component or step name
	FieldSteps     = capitan.NewIntKey("steps")         // Number of steps in the pipeline
	FieldInverses  = capitan.NewIntKey("inverses")      // Number of steps with a registered inverse
	FieldTimestamp = capitan.NewFloat64Key("timestamp") // Unix timestamp
)
