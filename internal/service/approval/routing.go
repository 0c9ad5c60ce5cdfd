package approval

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"gopkg.in/yaml.v3"
)

// Approver sources understood by a policy step.
const (
	SourceManager = "manager"
	SourceHR      = "hr"
	sourceRole    = "role:"
)

// Step is one approval step. Sources are tried in order and the first that
// resolves to an ACTIVE user other than the requester wins.
type Step struct {
	Name    string   `yaml:"name"`
	Sources []string `yaml:"sources"`
}

// Policy maps request types to approval chains. Types without an entry use
// Default. A type mapped to an empty list is approved on submission.
type Policy struct {
	Default []Step                  `yaml:"default"`
	Types   map[request.Type][]Step `yaml:"types"`
}

// DefaultPolicy routes every request to the requester's manager, falling
// back to an HR user.
func DefaultPolicy() Policy {
	return Policy{
		Default: []Step{{Name: "approver", Sources: []string{SourceManager, SourceHR}}},
	}
}

// LoadPolicy reads a YAML policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read approval policy: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("failed to parse approval policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if len(p.Default) == 0 {
		return fmt.Errorf("approval policy: default chain must have at least one step")
	}
	check := func(where string, steps []Step) error {
		for i, step := range steps {
			if len(step.Sources) == 0 {
				return fmt.Errorf("approval policy: %s step %d has no sources", where, i+1)
			}
			for _, src := range step.Sources {
				if !validSource(src) {
					return fmt.Errorf("approval policy: %s step %d has unknown source %q", where, i+1, src)
				}
			}
		}
		return nil
	}
	if err := check("default", p.Default); err != nil {
		return err
	}
	for t, steps := range p.Types {
		if !isRequestType(t) {
			return fmt.Errorf("approval policy: unknown request type %q", t)
		}
		if err := check(string(t), steps); err != nil {
			return err
		}
	}
	return nil
}

// StepsFor returns the chain configured for t.
func (p Policy) StepsFor(t request.Type) []Step {
	if steps, ok := p.Types[t]; ok {
		return steps
	}
	return p.Default
}

// ChainStrategy resolves a Policy against the organization's users.
type ChainStrategy struct {
	policy Policy
	users  user.UserRepository
}

func NewChainStrategy(policy Policy, users user.UserRepository) *ChainStrategy {
	return &ChainStrategy{policy: policy, users: users}
}

// Approvers implements request.ApproverStrategy. A step that resolves to
// nobody fails the whole chain with request.ErrNoApproverConfigured; the same
// user is never asked twice.
func (c *ChainStrategy) Approvers(ctx context.Context, r request.Request) ([]string, error) {
	steps := c.policy.StepsFor(r.Type)
	approvers := make([]string, 0, len(steps))
	seen := make(map[string]bool, len(steps))

	for _, step := range steps {
		approverID, err := c.resolveStep(ctx, r, step)
		if err != nil {
			return nil, err
		}
		if approverID == "" {
			return nil, request.ErrNoApproverConfigured
		}
		if seen[approverID] {
			continue
		}
		seen[approverID] = true
		approvers = append(approvers, approverID)
	}
	return approvers, nil
}

func (c *ChainStrategy) resolveStep(ctx context.Context, r request.Request, step Step) (string, error) {
	for _, src := range step.Sources {
		var u *user.User
		var err error

		switch {
		case src == SourceManager:
			u, err = c.users.GetActiveManager(ctx, r.RequesterID, r.OrgID)
		case src == SourceHR:
			u, err = c.users.FindActiveByRole(ctx, r.OrgID, user.RoleHR, r.RequesterID)
		case strings.HasPrefix(src, sourceRole):
			role := user.Role(strings.ToUpper(strings.TrimPrefix(src, sourceRole)))
			u, err = c.users.FindActiveByRole(ctx, r.OrgID, role, r.RequesterID)
		}
		if err != nil {
			return "", fmt.Errorf("failed to resolve approver source %q: %w", src, err)
		}
		if u != nil && u.ID != r.RequesterID {
			return u.ID, nil
		}
	}
	return "", nil
}

func validSource(src string) bool {
	if src == SourceManager || src == SourceHR {
		return true
	}
	if !strings.HasPrefix(src, sourceRole) {
		return false
	}
	roles := user.ParseRoles([]string{strings.ToUpper(strings.TrimPrefix(src, sourceRole))})
	return len(roles) == 1
}

func isRequestType(t request.Type) bool {
	for _, v := range request.TypeValues {
		if string(t) == v {
			return true
		}
	}
	return false
}
