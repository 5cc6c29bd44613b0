// Package cli implements the hop command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating the actual work to other internal packages:
//
//   - Command definitions (cobra.Command instances)
//   - Pipeline setup (config, dependency probe, credential check)
//   - Resolution and dispatch (in internal/resolve and internal/dispatch)
//
// # Command Structure
//
// The root command is "hop" with subcommands for the two pipelines and
// some housekeeping:
//
//	hop ec2         - Pick an instance by environment role and connect
//	hop ecs         - Pick an ECS task and connect to its host instance
//	hop init        - Write a default config file
//	hop doctor      - Check dependencies and credentials
//	hop version     - Print version information
//	hop completion  - Generate shell completion scripts
//
// # Exit Codes
//
// Execute maps errors to process exit codes: 0 for success and for runs
// the operator cancelled at a menu, 2 for flag parse failures, 1 for
// everything else. The mapping lives in internal/errors.ExitCode.
//
// # Pipeline Setup
//
// setupPipeline front-loads the failure modes: missing ssh client,
// unloadable config, and expired AWS credentials are all reported before
// the first menu renders. Commands then run their resolution pipeline
// and hand the resulting target to the dispatcher.
package cli
