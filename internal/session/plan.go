package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrPlan marks a malformed plan file. Nothing is executed for such a plan.
var ErrPlan = errors.New("invalid plan")

// Plan is a scripted session: a login followed by operations on the
// logged-in account.
type Plan struct {
	Login Credentials `yaml:"login"`
	Steps []Step      `yaml:"steps"`
}

// Credentials are kept as text, the way a customer would type them.
type Credentials struct {
	RoutingCode string `yaml:"routing_code"`
	Account     string `yaml:"account"`
	PIN         string `yaml:"pin"`
}

// Step is one operation. Which fields matter depends on Op.
type Step struct {
	Op               string `yaml:"op"`
	Amount           string `yaml:"amount,omitempty"`
	To               Target `yaml:"to,omitempty"`
	Account          int    `yaml:"account,omitempty"` // select only
	ConfirmOverdraft bool   `yaml:"confirm_overdraft,omitempty"`
}

// Target names a transfer recipient.
type Target struct {
	RoutingCode string `yaml:"routing_code"`
	Account     int    `yaml:"account"`
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlan, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every step's shape. Amount signs are left to the session
// so that a non-positive amount shows up as a failed operation.
func (p *Plan) Validate() error {
	for i, st := range p.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrPlan, i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Op {
	case OpDeposit, OpWithdraw:
		_, err := st.amount()
		return err
	case OpTransfer:
		if st.To.RoutingCode == "" {
			return errors.New("transfer needs to.routing_code")
		}
		_, err := st.amount()
		return err
	case OpInterest:
		return nil
	case OpSelect:
		if st.Account == 0 {
			return errors.New("select needs account")
		}
		return nil
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
}

func (st Step) amount() (decimal.Decimal, error) {
	if st.Amount == "" {
		return decimal.Zero, fmt.Errorf("%s needs amount", st.Op)
	}
	d, err := decimal.NewFromString(st.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", st.Amount, err)
	}
	return d, nil
}

// RunPlan logs in with the plan's credentials and executes every step in
// order. A failed operation is reported in its Result and does not stop the
// plan; a failed login or an invalid plan does.
func (s *Session) RunPlan(p *Plan) ([]Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.Login(p.Login.RoutingCode, p.Login.Account, p.Login.PIN); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	results := make([]Result, 0, len(p.Steps))
	for _, st := range p.Steps {
		res, _ := s.runStep(st)
		results = append(results, res)
	}
	return results, nil
}

func (s *Session) runStep(st Step) (Result, error) {
	switch st.Op {
	case OpDeposit:
		amount, _ := st.amount()
		return s.Deposit(amount)
	case OpWithdraw:
		amount, _ := st.amount()
		return s.Withdraw(amount, st.ConfirmOverdraft)
	case OpTransfer:
		amount, _ := st.amount()
		return s.Transfer(st.To.RoutingCode, st.To.Account, amount, st.ConfirmOverdraft)
	case OpInterest:
		return s.AccrueInterest()
	case OpSelect:
		return s.Select(st.Account)
	}
	return Result{}, fmt.Errorf("%w: unknown op %q", ErrPlan, st.Op)
}
