package listing

// DeleteState is the two-phase delete state machine:
// idle -> confirm_pending -> deleting -> idle.
// Animations between the states belong to the presentation layer.
type DeleteState string

const (
	DeleteIdle           DeleteState = "idle"
	DeleteConfirmPending DeleteState = "confirm_pending"
	DeleteDeleting       DeleteState = "deleting"
)

type deleteMachine struct {
	state  DeleteState
	target int
}

func (m *deleteMachine) current() DeleteState {
	if m.state == "" {
		return DeleteIdle
	}
	return m.state
}

// request opens (or retargets) the confirmation.
func (m *deleteMachine) request(id int) error {
	if m.current() == DeleteDeleting {
		return ErrDeleteInProgress
	}
	m.state = DeleteConfirmPending
	m.target = id
	return nil
}

func (m *deleteMachine) begin() (int, error) {
	switch m.current() {
	case DeleteConfirmPending:
		m.state = DeleteDeleting
		return m.target, nil
	case DeleteDeleting:
		return 0, ErrDeleteInProgress
	default:
		return 0, ErrNoPendingDelete
	}
}

func (m *deleteMachine) cancel() error {
	switch m.current() {
	case DeleteDeleting:
		return ErrDeleteInProgress
	case DeleteIdle:
		return ErrNoPendingDelete
	}
	m.state = DeleteIdle
	m.target = 0
	return nil
}

func (m *deleteMachine) finish() {
	m.state = DeleteIdle
	m.target = 0
}

func (m *deleteMachine) pending() *int {
	if m.current() == DeleteIdle {
		return nil
	}
	id := m.target
	return &id
}
