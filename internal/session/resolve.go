package session

import (
	"github.com/noah-isme/course-portal/pkg/config"
)

// Resolve builds the portal identity from configuration. A configured token wins
// over the plain role and name settings; flags override both when non-empty.
// The token is decoded, not verified: the portal never needs the signing secret.
func Resolve(cfg *config.Config, overrides Identity) (Identity, error) {
	id := Identity{
		Role:       ParseRole(cfg.Portal.DefaultRole),
		Name:       cfg.Portal.DefaultName,
		RollNumber: cfg.Portal.DefaultRollNumber,
	}
	if cfg.Portal.Token != "" {
		parsed, err := Decode(cfg.Portal.Token)
		if err != nil {
			return Identity{}, err
		}
		id = parsed
	}
	if overrides.Role != "" {
		id.Role = ParseRole(string(overrides.Role))
	}
	if overrides.Name != "" {
		id.Name = overrides.Name
	}
	if overrides.RollNumber != "" {
		id.RollNumber = overrides.RollNumber
	}
	if overrides.Token != "" {
		id.Token = overrides.Token
	}
	return id, nil
}
