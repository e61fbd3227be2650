// Package deployment provides pure functions for planning a hub deployment.
//
// This package contains the functional core logic that sits between the raw
// operator input and the imperative shell that writes files and runs
// commands. Functions here do no I/O of their own; anything that touches the
// outside world (prompting, checking that a path exists) is passed in.
//
// # Functions
//
//   - Collect: Gather DeploymentInputs from a ValueSource
//   - Resolve: Pick the deployment directory a lifecycle command acts on
//   - ResolveHostPath / IsWithin: Anchor host paths under a deployment directory
//   - PlanDatasetPath: Decide what to do about a missing dataset path
//   - SubstituteVariables: Expand ${VAR} placeholders
//
// # Usage
//
//	inputs, err := deployment.Collect(source, deployment.CollectOptions{Production: true})
//	dir, err := deployment.Resolve(flagDir, state, "./mvre-hub", exists)
package deployment
