package data

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

func CreateCommand(db *gorm.DB, command *models.MachineCommand) error {
	return add(db, command)
}

// CreateCommands inserts a batch of commands. The caller is responsible for
// validating every target machine before calling; the batch is written in
// one operation so either all rows exist or none do.
func CreateCommands(db *gorm.DB, commands []models.MachineCommand) error {
	if len(commands) == 0 {
		return nil
	}
	return handleError(db.Create(&commands).Error)
}

func GetCommand(db *gorm.DB, selectors ...SelectorFunc) (*models.MachineCommand, error) {
	return get[models.MachineCommand](db, selectors...)
}

func ListCommands(db *gorm.DB, selectors ...SelectorFunc) ([]models.MachineCommand, error) {
	return list[models.MachineCommand](db, selectors...)
}

func CountCommandsByStatus(db *gorm.DB, status api.CommandStatus) (int64, error) {
	return count[models.MachineCommand](db, ByOptionalStatus(string(status)))
}

// PollPendingCommands selects the oldest commands still awaiting delivery
// (status pending or sent) and transitions the batch to sent in the same
// transaction. Commands already sent but never acknowledged are picked up
// again, which gives at-least-once delivery.
func PollPendingCommands(db *gorm.DB, machineID uid.ID, limit int) ([]models.MachineCommand, error) {
	var polled []models.MachineCommand

	err := db.Transaction(func(tx *gorm.DB) error {
		commands, err := list[models.MachineCommand](tx,
			ByMachineID(machineID),
			func(db *gorm.DB) *gorm.DB {
				return db.Where("status IN ?", []api.CommandStatus{api.CommandStatusPending, api.CommandStatusSent})
			},
			CreatedAsc(),
			Limit(limit),
		)
		if err != nil {
			return err
		}
		if len(commands) == 0 {
			polled = commands
			return nil
		}

		ids := make([]uid.ID, 0, len(commands))
		for i := range commands {
			ids = append(ids, commands[i].ID)
		}

		now := time.Now().UTC()
		result := tx.Model(&models.MachineCommand{}).
			Where("id IN ?", ids).
			Where("status IN ?", []api.CommandStatus{api.CommandStatusPending, api.CommandStatusSent}).
			Updates(map[string]interface{}{
				"status":  api.CommandStatusSent,
				"sent_at": now,
			})
		if result.Error != nil {
			return handleError(result.Error)
		}

		for i := range commands {
			commands[i].Status = api.CommandStatusSent
			sentAt := now
			commands[i].SentAt = &sentAt
		}
		polled = commands
		return nil
	})
	if err != nil {
		return nil, err
	}
	return polled, nil
}

// AcknowledgeCommand applies a device-reported transition to a command. The
// command must belong to machineID; an ack against another machine's command
// fails with not found rather than silently succeeding. Illegal transitions
// (backward moves, writes to a terminal row) are rejected. A re-sent ack for
// the status the command already holds is a no-op success, so a device that
// lost the response can safely retry.
func AcknowledgeCommand(db *gorm.DB, machineID, commandID uid.ID, status api.CommandStatus, result models.JSONMap, errorMessage string) (*models.MachineCommand, error) {
	command, err := GetCommand(db, ByID(commandID), ByMachineID(machineID))
	if err != nil {
		return nil, err
	}

	if command.Status == status {
		return command, nil
	}

	if !models.ValidCommandTransition(command.Status, status) {
		return nil, fmt.Errorf("%w: cannot transition command from %v to %v",
			internal.ErrBadRequest, command.Status, status)
	}

	if err := applyCommandTransition(db, command, status, result, errorMessage); err != nil {
		return nil, err
	}

	return GetCommand(db, ByID(command.ID))
}

// applyCommandTransition writes the transition guarded by the status the
// caller read. A concurrent request that moved the command first makes the
// update match zero rows, so a stale write can never overwrite a terminal
// state.
func applyCommandTransition(db *gorm.DB, command *models.MachineCommand, status api.CommandStatus, result models.JSONMap, errorMessage string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{"status": status}

	switch {
	case status == api.CommandStatusReceived:
		updates["received_at"] = now
	case models.CommandStatusTerminal(status):
		updates["completed_at"] = now
		if result != nil {
			updates["result"] = result
		}
		if errorMessage != "" {
			updates["error_message"] = errorMessage
		}
	}

	res := db.Model(&models.MachineCommand{}).
		Where("id = ?", command.ID).
		Where("status = ?", command.Status).
		Updates(updates)
	if res.Error != nil {
		return handleError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: command was updated concurrently", internal.ErrConflict)
	}
	return nil
}

// SweepTimedOutCommands flips every command stuck in a non-terminal
// post-delivery state past the deadline to the terminal timeout status. One
// batch update, idempotent under repeated invocation.
func SweepTimedOutCommands(db *gorm.DB, olderThan time.Time) (int64, error) {
	result := db.Model(&models.MachineCommand{}).
		Where("status IN ?", []api.CommandStatus{
			api.CommandStatusSent,
			api.CommandStatusReceived,
			api.CommandStatusExecuting,
		}).
		Where("COALESCE(received_at, sent_at) < ?", olderThan).
		Updates(map[string]interface{}{
			"status":       api.CommandStatusTimeout,
			"completed_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, handleError(result.Error)
	}
	return result.RowsAffected, nil
}
