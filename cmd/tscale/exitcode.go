package main

import (
	"errors"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/descriptor"
	"github.com/jbweber/tscale/internal/executor"
	"github.com/jbweber/tscale/internal/registry"
	"github.com/jbweber/tscale/internal/vm"
)

// Process exit codes, one per failure kind
const (
	exitOK = iota
	exitFailure
	exitMissingTool
	exitMissingCredential
	exitBadInput
	exitAlreadyExists
	exitNotFound
	exitRegistryMissing
	exitCommandFailed
	exitDirectoryNotEmpty
	exitUnresolvedTokens
)

// exitCode maps an error returned by a subcommand to the process exit code
func exitCode(err error) int {
	var (
		missingTool   *executor.MissingToolError
		missingCred   *config.MissingCredentialError
		missingInput  *config.MissingInputError
		invalidInput  *config.InvalidInputError
		commandFailed *executor.ExternalCommandFailedError
		unresolved    *descriptor.UnresolvedTokensError
	)

	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &missingTool):
		return exitMissingTool
	case errors.As(err, &missingCred):
		return exitMissingCredential
	case errors.As(err, &missingInput), errors.As(err, &invalidInput):
		return exitBadInput
	case errors.Is(err, vm.ErrAlreadyExists):
		return exitAlreadyExists
	case errors.Is(err, vm.ErrNotFound):
		return exitNotFound
	case errors.Is(err, registry.ErrRegistryMissing):
		return exitRegistryMissing
	case errors.As(err, &commandFailed):
		return exitCommandFailed
	case errors.Is(err, registry.ErrDirectoryNotEmpty):
		return exitDirectoryNotEmpty
	case errors.As(err, &unresolved):
		return exitUnresolvedTokens
	default:
		return exitFailure
	}
}
