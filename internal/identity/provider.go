// Package identity resolves who is acting on a checklist: the person
// stamped on completions and captured by the signature gate.
package identity

import (
	"encoding/json"
	"fmt"

	"github.com/obratrack/obratrack/internal/credential"
	"github.com/obratrack/obratrack/internal/model"
)

const signerKey = "signer"

// Provider resolves the current actor.
type Provider interface {
	Current() (model.Actor, error)
}

// KeyringProvider reads the signer identity from the system keyring,
// falling back to the config file's signer section when the keyring
// has no entry yet.
type KeyringProvider struct {
	fallback model.SignerConfig
}

func NewKeyringProvider(fallback model.SignerConfig) *KeyringProvider {
	return &KeyringProvider{fallback: fallback}
}

func (p *KeyringProvider) Current() (model.Actor, error) {
	raw, err := credential.Get(signerKey)
	if err != nil {
		if p.fallback.Name == "" {
			return model.Actor{}, fmt.Errorf("no signer identity configured: %w", err)
		}
		return model.Actor{
			Name:  p.fallback.Name,
			Email: p.fallback.Email,
			Role:  p.fallback.Role,
		}, nil
	}

	var actor model.Actor
	if err := json.Unmarshal([]byte(raw), &actor); err != nil {
		return model.Actor{}, fmt.Errorf("decoding stored signer identity: %w", err)
	}
	return actor, nil
}

// Save stores the signer identity in the system keyring.
func (p *KeyringProvider) Save(actor model.Actor) error {
	raw, err := json.Marshal(actor)
	if err != nil {
		return fmt.Errorf("encoding signer identity: %w", err)
	}
	return credential.Set(signerKey, string(raw))
}

// StaticProvider returns a fixed actor. Used in tests and seeding.
type StaticProvider struct {
	Actor model.Actor
}

func (p StaticProvider) Current() (model.Actor, error) {
	return p.Actor, nil
}
