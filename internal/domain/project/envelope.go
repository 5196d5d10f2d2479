package project

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
)

// ChangeKind tags the stored envelope variant.
type ChangeKind string

const (
	ChangeKindUpdate   ChangeKind = "atualizacao"
	ChangeKindDeletion ChangeKind = "exclusao"
)

// PendingChange is either an *UpdateRequest or a *DeletionRequest.
type PendingChange interface {
	Kind() ChangeKind
}

// UpdateRequest is a proposed change awaiting moderation.
// A nil NewImages keeps the portfolio; a non-nil one replaces it entirely.
type UpdateRequest struct {
	Fields    map[string]string `json:"campos"`
	NewLogo   *string           `json:"logo,omitempty"`
	NewOficio *string           `json:"oficio,omitempty"`
	NewImages []string          `json:"imagens"`
}

func (*UpdateRequest) Kind() ChangeKind { return ChangeKindUpdate }

// StagedFiles lists every file URL the envelope introduced.
func (r *UpdateRequest) StagedFiles() []string {
	var urls []string
	if r.NewLogo != nil {
		urls = append(urls, *r.NewLogo)
	}
	if r.NewOficio != nil {
		urls = append(urls, *r.NewOficio)
	}
	return append(urls, r.NewImages...)
}

// DeletionRequest carries the requester's justification.
type DeletionRequest struct {
	Reason string `json:"motivo"`
}

func (*DeletionRequest) Kind() ChangeKind { return ChangeKindDeletion }

type storedChange struct {
	Kind ChangeKind      `json:"tipo"`
	Data json.RawMessage `json:"dados"`
}

var ErrMalformedEnvelope = errors.New("malformed pending change")

// EncodePendingChange serialises a variant for the dados_atualizacao column.
func EncodePendingChange(pc PendingChange) (datatypes.JSON, error) {
	if pc == nil {
		return nil, nil
	}
	data, err := json.Marshal(pc)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(storedChange{Kind: pc.Kind(), Data: data})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodePendingChange reads a stored envelope back into its variant.
func DecodePendingChange(raw datatypes.JSON) (PendingChange, error) {
	var stored storedChange
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	switch stored.Kind {
	case ChangeKindUpdate:
		var req UpdateRequest
		if err := json.Unmarshal(stored.Data, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		return &req, nil
	case ChangeKindDeletion:
		var req DeletionRequest
		if err := json.Unmarshal(stored.Data, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		return &req, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedEnvelope, stored.Kind)
	}
}
