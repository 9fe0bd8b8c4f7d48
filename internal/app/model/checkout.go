package model

import "errors"

type FlowState string
type FlowAction string

const (
	FlowClosed   FlowState = "closed"
	FlowCheckout FlowState = "checkout"
	FlowPayment  FlowState = "payment"
	FlowShipping FlowState = "shipping"
	FlowAddress  FlowState = "address"

	ActionOpenCheckout FlowAction = "open_checkout"
	ActionOpenPayment  FlowAction = "open_payment"
	ActionOpenShipping FlowAction = "open_shipping"
	ActionOpenAddress  FlowAction = "open_address"
	ActionClose        FlowAction = "close"
	ActionComplete     FlowAction = "complete" // order submitted
)

var ErrInvalidTransition = errors.New("invalid checkout transition")

// flowTransitions is the whole checkout panel graph. Each panel's close
// action returns to the panel it was opened from.
var flowTransitions = map[FlowState]map[FlowAction]FlowState{
	FlowClosed: {
		ActionOpenCheckout: FlowCheckout,
	},
	FlowCheckout: {
		ActionOpenPayment:  FlowPayment,
		ActionOpenShipping: FlowShipping,
		ActionClose:        FlowClosed,
		ActionComplete:     FlowClosed,
	},
	FlowPayment: {
		ActionClose: FlowCheckout,
	},
	FlowShipping: {
		ActionOpenAddress: FlowAddress,
		ActionClose:       FlowCheckout,
	},
	FlowAddress: {
		ActionClose: FlowShipping,
	},
}

// NextFlowState looks up state × action in the transition table.
func NextFlowState(state FlowState, action FlowAction) (FlowState, error) {
	next, ok := flowTransitions[state][action]
	if !ok {
		return state, ErrInvalidTransition
	}
	return next, nil
}

func ParseFlowAction(s string) (FlowAction, bool) {
	switch action := FlowAction(s); action {
	case ActionOpenCheckout, ActionOpenPayment, ActionOpenShipping, ActionOpenAddress, ActionClose, ActionComplete:
		return action, true
	}
	return "", false
}

// CheckoutFlow is the single active checkout panel.
type CheckoutFlow struct {
	State FlowState `json:"state"`
}

func NewCheckoutFlow() *CheckoutFlow {
	return &CheckoutFlow{State: FlowClosed}
}

// Fire applies action and returns the state it moved from.
func (f *CheckoutFlow) Fire(action FlowAction) (FlowState, error) {
	prev := f.State
	next, err := NextFlowState(prev, action)
	if err != nil {
		return prev, err
	}
	f.State = next
	return prev, nil
}
