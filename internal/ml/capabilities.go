package ml

import (
	"tsexp/internal/common"
	"tsexp/internal/params"
)

// Capabilities holds the optional interfaces a classifier implements. A nil field
// means the capability is absent.
type Capabilities struct {
	Params             params.Handler
	Options            params.OptionHandler
	Seed               Randomizable
	Logging            Loggable
	TrainEstimate      TrainEstimateable
	Checkpoint         Checkpointable
	CheckpointInterval CheckpointIntervalSetter
	TrainContract      TrainTimeContractable
	TestContract       TestTimeContractable
	MemoryContract     MemoryContractable
}

// Probe resolves the capabilities of c. It is meant to run once per attachment.
func Probe(c Classifier) Capabilities {
	var caps Capabilities
	if c == nil {
		return caps
	}
	caps.Params, _ = c.(params.Handler)
	caps.Options, _ = c.(params.OptionHandler)
	caps.Seed, _ = c.(Randomizable)
	caps.Logging, _ = c.(Loggable)
	caps.TrainEstimate, _ = c.(TrainEstimateable)
	caps.Checkpoint, _ = c.(Checkpointable)
	caps.CheckpointInterval, _ = c.(CheckpointIntervalSetter)
	caps.TrainContract, _ = c.(TrainTimeContractable)
	caps.TestContract, _ = c.(TestTimeContractable)
	caps.MemoryContract, _ = c.(MemoryContractable)
	return caps
}

// Settable reports whether parameters can be pushed in either form.
func (c Capabilities) Settable() bool {
	return c.Params != nil || c.Options != nil
}

// Names lists the supported capabilities, for logging.
func (c Capabilities) Names() []string {
	var names []string
	add := func(ok bool, name string) {
		if ok {
			names = append(names, name)
		}
	}
	add(c.Settable(), common.CapabilityParams)
	add(c.Seed != nil, common.CapabilitySeed)
	add(c.Logging != nil, common.CapabilityLogging)
	add(c.TrainEstimate != nil, common.CapabilityTrainEstimate)
	add(c.Checkpoint != nil, common.CapabilityCheckpoint)
	add(c.CheckpointInterval != nil, common.CapabilityCheckpointTick)
	add(c.TrainContract != nil, common.CapabilityTrainContract)
	add(c.TestContract != nil, common.CapabilityTestContract)
	add(c.MemoryContract != nil, common.CapabilityMemoryContract)
	return names
}
