package render

import (
	"fmt"
	"io"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/usecase"
)

// TaskRenderer renders configuration tasks and guard checks
type TaskRenderer struct {
	out io.Writer
}

// NewTaskRenderer creates a new task renderer
func NewTaskRenderer(out io.Writer) *TaskRenderer {
	return &TaskRenderer{out: out}
}

// RenderTransfer prints a submitted ownership transfer
func (r *TaskRenderer) RenderTransfer(result *usecase.TransferOwnershipResult) {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Ownership of %s transferred to %s", result.Contract.Hex(), result.NewOwner.Hex())))
	faintColor.Fprintf(r.out, "   tx %s (block %d)\n", result.Tx.TxHash.Hex(), result.Tx.BlockNumber)
}

// RenderWhitelist prints a submitted whitelist change
func (r *TaskRenderer) RenderWhitelist(result *usecase.WhitelistResult) {
	action := "whitelisted on"
	if !result.Allowed {
		action = "removed from whitelist of"
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s %s", result.Account.Hex(), action, result.Guard.Hex())))
	faintColor.Fprintf(r.out, "   tx %s (block %d)\n", result.Tx.TxHash.Hex(), result.Tx.BlockNumber)
}

// RenderGuardCheck prints how the guard treats a caller
func (r *TaskRenderer) RenderGuardCheck(result *domain.GuardResult) {
	kind := "externally owned account"
	if result.IsContract {
		kind = "contract"
	}
	fmt.Fprintf(r.out, "Guard:   %s\n", result.Guard.Hex())
	fmt.Fprintf(r.out, "Caller:  %s (%s)\n", result.Caller.Hex(), kind)
	if result.IsContract {
		fmt.Fprintf(r.out, "Whitelisted: %t\n", result.Whitelisted)
	}

	if result.Allowed {
		fmt.Fprintln(r.out, FormatSuccess("Call allowed"))
		return
	}
	fmt.Fprintln(r.out, errorColor.Sprintf("❌ Call reverts with %q", result.Reason))
}
