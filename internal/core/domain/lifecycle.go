package domain

import "fmt"

// =============================================================================
// Lifecycle Commands
// =============================================================================

// Command is one lifecycle command.
type Command string

const (
	CommandDeploy Command = "deploy"
	CommandStart  Command = "start"
	CommandStop   Command = "stop"
	CommandStatus Command = "status"
	CommandClean  Command = "clean"
	CommandDoctor Command = "doctor"
)

// CommandRules describes the preconditions and effects of a command.
type CommandRules struct {
	// ResolvesDeployment is true when the command acts on an existing
	// deployment located by the resolver.
	ResolvesDeployment bool

	// RequiresConfirmation is true for commands that destroy data.
	RequiresConfirmation bool

	// SavesState is true when the persisted state is rewritten on success.
	SavesState bool
}

var commandRules = map[Command]CommandRules{
	CommandDeploy: {SavesState: true},
	CommandStart:  {ResolvesDeployment: true, SavesState: true},
	CommandStop:   {ResolvesDeployment: true, SavesState: true},
	CommandStatus: {ResolvesDeployment: true},
	CommandClean:  {ResolvesDeployment: true, RequiresConfirmation: true, SavesState: true},
	CommandDoctor: {ResolvesDeployment: true},
}

// RulesFor returns the rules for a command.
func RulesFor(cmd Command) (CommandRules, error) {
	rules, ok := commandRules[cmd]
	if !ok {
		return CommandRules{}, fmt.Errorf("unknown command: %s", cmd)
	}
	return rules, nil
}

// CheckConfirmation enforces the safety lock. It must run before any other
// step of the command.
func CheckConfirmation(cmd Command, confirmed bool) error {
	rules, err := RulesFor(cmd)
	if err != nil {
		return err
	}
	if rules.RequiresConfirmation && !confirmed {
		return ErrSafetyLockEngaged
	}
	return nil
}
