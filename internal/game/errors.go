package game

import "errors"

// Validation failures. Returned without mutating state.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotUnlockable     = errors.New("cell is not purchasable")
	ErrAlreadyUnlocked   = errors.New("cell already unlocked")
	ErrInvalidPlacement  = errors.New("invalid placement")
	ErrPartNotFound      = errors.New("part not found")
	ErrUnknownPart       = errors.New("unknown part template")
	ErrAlreadyOwned      = errors.New("part type already owned")
	ErrMaxLevel          = errors.New("already at max level")
	ErrMissingMaterial   = errors.New("missing upgrade material")
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
	ErrUnknownMission    = errors.New("unknown mission")
	ErrHullWrecked       = errors.New("hull too damaged to launch")
	ErrNothingToRepair   = errors.New("hull already intact")
)
