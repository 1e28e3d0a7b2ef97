package sim

import "fmt"

// A ContractError reports misuse of the simulation API, such as scheduling
// with a negative delay, using a simulator after Destroy, or releasing an
// object more times than it was acquired. The kernel never repairs a
// malformed request; it panics with a ContractError at the offending call.
type ContractError struct {
	Op     string
	Detail string
}

func (e *ContractError) Error() string {
	return "sim: " + e.Op + ": " + e.Detail
}

func violateContract(op, format string, args ...any) {
	panic(&ContractError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
