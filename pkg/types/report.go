// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunMode distinguishes full launches from best-effort setup runs.
type RunMode string

const (
	ModeLaunch RunMode = "launch"
	ModeSetup  RunMode = "setup"
)

// Step identifies one phase of a launcher run.
type Step string

const (
	StepDiscover Step = "discover"
	StepEnv      Step = "env"
	StepDeps     Step = "deps"
	StepSpawn    Step = "spawn"
)

// StepStatus is the outcome of a single step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepRecord is one step outcome within a run.
type StepRecord struct {
	// Step names the phase.
	Step Step `json:"step" yaml:"step"`

	// Status is the phase outcome.
	Status StepStatus `json:"status" yaml:"status"`

	// Detail carries step specifics: the interpreter version found, the
	// environment directory created, or the failure text.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	// Duration is how long the step ran.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// RunRecord is one launcher or setup invocation as stored in the journal.
type RunRecord struct {
	// ID is the journal row identifier, assigned on insert.
	ID int64 `json:"id" yaml:"id"`

	// Mode records whether this was a launch or a setup run.
	Mode RunMode `json:"mode" yaml:"mode"`

	// StartedAt is when the run began, in UTC.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Steps lists step outcomes in execution order.
	Steps []StepRecord `json:"steps" yaml:"steps"`
}
