package resolve

import (
	"context"

	"github.com/rileyhilliard/hop/internal/inventory"
	"github.com/rileyhilliard/hop/internal/picker"
)

// Role resolves one role tag value for the session's environment. The
// role list comes from the on-disk cache when present; a miss queries the
// provider, sorts and dedupes, and writes the cache before presenting.
func (s *Session) Role(ctx context.Context) (string, bool, error) {
	var roles []string
	err := s.spin("Listing roles in "+s.Env, func() error {
		var fetchErr error
		roles, fetchErr = s.Cache.GetOrFetch(s.Env, func() ([]string, error) {
			return inventory.ListRoles(ctx, s.EC2, s.Env)
		})
		return fetchErr
	})
	if err != nil {
		return "", false, err
	}

	rows := make([]picker.Row, len(roles))
	for i, role := range roles {
		rows[i] = picker.Row{Key: role, Columns: []string{role}}
	}

	row, ok, err := s.pick(rows, picker.Options{Prompt: PromptRole})
	if err != nil || !ok {
		return "", false, err
	}
	return row.Key, true, nil
}

// Instance resolves one running instance matching the environment and
// role. Rows keep provider order; the menu's own match ranking handles
// ordering from there.
func (s *Session) Instance(ctx context.Context, role string) (*inventory.Instance, bool, error) {
	var instances []inventory.Instance
	err := s.spin("Listing "+role+" instances", func() error {
		var listErr error
		instances, listErr = inventory.ListInstances(ctx, s.EC2, s.Env, role)
		return listErr
	})
	if err != nil {
		return nil, false, err
	}

	byID := make(map[string]inventory.Instance, len(instances))
	rows := make([]picker.Row, len(instances))
	for i, inst := range instances {
		byID[inst.ID] = inst
		rows[i] = picker.Row{
			Key:     inst.ID,
			Columns: []string{inst.Name, inst.PrivateIP},
		}
	}

	row, ok, err := s.pick(rows, picker.Options{
		Prompt: PromptInstance,
		Header: "name / address",
	})
	if err != nil || !ok {
		return nil, false, err
	}

	inst := byID[row.Key]
	return &inst, true, nil
}

// EC2Target runs the whole EC2 pipeline: role, then instance, then the
// connection endpoint. No login user is inferred on this path; ssh's own
// config decides.
func (s *Session) EC2Target(ctx context.Context) (*Target, bool, error) {
	role, ok, err := s.Role(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	inst, ok, err := s.Instance(ctx, role)
	if err != nil || !ok {
		return nil, false, err
	}

	s.log().Debug("resolved %s (%s) for role %s", inst.Name, inst.PrivateIP, role)
	return &Target{
		Address:    inst.PrivateIP,
		InstanceID: inst.ID,
	}, true, nil
}
