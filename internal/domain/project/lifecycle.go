package project

import (
	"errors"
	"fmt"
)

// Status is the moderation state of a project.
type Status string

const (
	StatusPendingApproval Status = "pendente_aprovacao"
	StatusActive          Status = "ativo"
	StatusPendingUpdate   Status = "pendente_atualizacao"
	StatusPendingDeletion Status = "pendente_exclusao"
	// StatusRejected is declared for compatibility but never persisted:
	// rejecting a new submission deletes it.
	StatusRejected Status = "rejeitado"
)

// IsPending reports whether the status waits on an admin decision.
func (s Status) IsPending() bool {
	switch s {
	case StatusPendingApproval, StatusPendingUpdate, StatusPendingDeletion:
		return true
	}
	return false
}

// CarriesEnvelope reports whether a project in this status must hold dados_atualizacao.
func (s Status) CarriesEnvelope() bool {
	return s == StatusPendingUpdate || s == StatusPendingDeletion
}

// Action is an event applied to a project.
type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionEditAndApprove  Action = "edit-and-approve"
	ActionRequestUpdate   Action = "request-update"
	ActionRequestDeletion Action = "request-deletion"
	ActionAdminUpdate     Action = "admin-update"
)

// Outcome tells the orchestrator what a legal transition does.
type Outcome int

const (
	// OutcomeActivate flips a new submission live.
	OutcomeActivate Outcome = iota + 1
	// OutcomeMergeEnvelope applies the staged update and goes live.
	OutcomeMergeEnvelope
	// OutcomeMergeAdmin applies admin fields plus staged files and goes live.
	OutcomeMergeAdmin
	// OutcomeDelete removes the record, its images and its directory.
	OutcomeDelete
	// OutcomeRevert discards the envelope and returns to ativo.
	OutcomeRevert
	// OutcomeStageUpdate attaches an update envelope.
	OutcomeStageUpdate
	// OutcomeStageDeletion attaches a deletion justification.
	OutcomeStageDeletion
	// OutcomeApplyDirect edits a live record in place.
	OutcomeApplyDirect
)

var ErrIllegalTransition = errors.New("illegal state transition")

var transitions = map[Status]map[Action]Outcome{
	StatusPendingApproval: {
		ActionApprove:        OutcomeActivate,
		ActionReject:         OutcomeDelete,
		ActionEditAndApprove: OutcomeMergeAdmin,
	},
	StatusActive: {
		ActionRequestUpdate:   OutcomeStageUpdate,
		ActionRequestDeletion: OutcomeStageDeletion,
		ActionAdminUpdate:     OutcomeApplyDirect,
	},
	StatusPendingUpdate: {
		ActionApprove:        OutcomeMergeEnvelope,
		ActionReject:         OutcomeRevert,
		ActionEditAndApprove: OutcomeMergeAdmin,
	},
	StatusPendingDeletion: {
		ActionApprove: OutcomeDelete,
		ActionReject:  OutcomeRevert,
	},
}

// Transition resolves the outcome of applying action to a project in status from.
func Transition(from Status, action Action) (Outcome, error) {
	if outcome, ok := transitions[from][action]; ok {
		return outcome, nil
	}
	return 0, fmt.Errorf("%w: %s is not allowed while %s", ErrIllegalTransition, action, from)
}

// Activate makes the project live and drops any envelope.
func (p *Project) Activate() {
	p.Status = StatusActive
	p.Ativo = true
	p.DadosAtualizacao = nil
}

// RevertToActive returns a pending project to ativo without touching visibility.
func (p *Project) RevertToActive() {
	p.Status = StatusActive
	p.DadosAtualizacao = nil
}

// StageUpdate attaches an update envelope; live fields stay untouched.
func (p *Project) StageUpdate(req *UpdateRequest) error {
	raw, err := EncodePendingChange(req)
	if err != nil {
		return err
	}
	p.Status = StatusPendingUpdate
	p.DadosAtualizacao = raw
	return nil
}

// StageDeletion attaches a deletion justification.
func (p *Project) StageDeletion(reason string) error {
	raw, err := EncodePendingChange(&DeletionRequest{Reason: reason})
	if err != nil {
		return err
	}
	p.Status = StatusPendingDeletion
	p.DadosAtualizacao = raw
	return nil
}

// PendingChange decodes the envelope and checks it matches the status.
// It returns nil when the project holds no envelope.
func (p *Project) PendingChange() (PendingChange, error) {
	if len(p.DadosAtualizacao) == 0 || string(p.DadosAtualizacao) == "null" {
		return nil, nil
	}
	pc, err := DecodePendingChange(p.DadosAtualizacao)
	if err != nil {
		return nil, err
	}
	switch pc.(type) {
	case *UpdateRequest:
		if p.Status != StatusPendingUpdate {
			return nil, fmt.Errorf("update envelope found on project in status %s", p.Status)
		}
	case *DeletionRequest:
		if p.Status != StatusPendingDeletion {
			return nil, fmt.Errorf("deletion envelope found on project in status %s", p.Status)
		}
	}
	return pc, nil
}
